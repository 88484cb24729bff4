package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Builder creates the provider sender for a prepared config entry.
type Builder func(ctx context.Context, cfg PublisherConfig) (Sender, error)

// Registry maps sink types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)
}

// registry is not safe for Register calls concurrent with PublisherFor.
type registry map[string]Builder

// NewRegistry returns a registry holding builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := make(registry, len(builders))
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

func (r registry) Register(typ string, builder Builder) {
	if typ = strings.ToLower(strings.TrimSpace(typ)); typ != "" && builder != nil {
		r[typ] = builder
	}
}

// PublisherFor builds the sender for cfg and puts its route in front of it.
func (r registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	build, ok := r[strings.ToLower(cfg.Type)]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	route, err := cfg.Route.compile()
	if err != nil {
		return nil, err
	}

	sender, err := build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &sink{id: cfg.ID, typ: cfg.Type, route: route, sender: sender, log: ensureLogger(log)}, nil
}

// DefaultRegistry knows every sink type this package ships.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:   newHTTPSender,
		TypeSQS:    newSQSSender,
		TypeSNS:    newSNSSender,
		TypePubSub: newPubSubSender,
	})
}

// BuildAll instantiates the enabled entries. If any entry fails, the
// publishers already built are closed and none are returned.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) (pubs []Publisher, err error) {
	if reg == nil {
		return nil, nil
	}
	log = ensureLogger(log)

	defer func() {
		if err != nil {
			err = errors.Join(err, CloseAll(pubs))
			pubs = nil
		}
	}()

	for _, cfg := range cfgs {
		if !cfg.EnabledValue() {
			log.InfoObj("publisher disabled", "publisher_skip", map[string]any{"publisher_id": cfg.ID})
			continue
		}
		pub, buildErr := reg.PublisherFor(ctx, cfg, log)
		if buildErr != nil {
			return pubs, fmt.Errorf("build publisher %q: %w", cfg.ID, buildErr)
		}
		pubs = append(pubs, pub)
		log.InfoObj("publisher ready", "publisher_ready", map[string]any{
			"publisher_id": cfg.ID,
			"type":         cfg.Type,
		})
	}
	return pubs, nil
}

// CloseAll closes every publisher and joins their errors.
func CloseAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher %q: %w", p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
