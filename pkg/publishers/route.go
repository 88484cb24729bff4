package publishers

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
)

// Route narrows the events a publisher receives. An empty route takes
// everything. Listing failure kinds without statuses selects only those
// failures; add "success" to the statuses to keep successes too.
type Route struct {
	Statuses     []string `json:"statuses" yaml:"statuses"`
	FailureKinds []string `json:"failure_kinds" yaml:"failure_kinds"`
}

type routeFilter struct {
	statuses map[string]bool
	kinds    map[domain.FailureKind]bool
}

func (r Route) compile() (routeFilter, error) {
	var f routeFilter
	for _, raw := range r.Statuses {
		status := strings.ToLower(strings.TrimSpace(raw))
		if status != StatusSuccess && status != StatusFailure {
			return routeFilter{}, fmt.Errorf("route: unknown status %q", raw)
		}
		if f.statuses == nil {
			f.statuses = make(map[string]bool, 2)
		}
		f.statuses[status] = true
	}
	for _, raw := range r.FailureKinds {
		kind, err := domain.ParseFailureKind(strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			return routeFilter{}, fmt.Errorf("route: %w", err)
		}
		if f.kinds == nil {
			f.kinds = make(map[domain.FailureKind]bool)
		}
		f.kinds[kind] = true
	}
	return f, nil
}

func (f routeFilter) allows(evt Event) bool {
	if len(f.statuses) > 0 {
		if !f.statuses[evt.Status] {
			return false
		}
	} else if len(f.kinds) > 0 && evt.Status != StatusFailure {
		return false
	}

	if evt.Status == StatusFailure && len(f.kinds) > 0 {
		return f.kinds[evt.FailureKind]
	}
	return true
}
