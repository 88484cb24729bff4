package feeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
	"github.com/Adda-Baaj/podcast-harvester/pkg/httpclient"
)

// Fetcher downloads raw feed documents through a shared client.
type Fetcher struct {
	client  httpclient.Client
	headers map[string]string
}

// NewFetcher builds a Fetcher. headers are sent with every request.
func NewFetcher(client httpclient.Client, headers map[string]string) *Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &Fetcher{client: client, headers: headers}
}

// Fetch issues one GET and returns the whole body.
// Every failure is a *domain.FeedError of kind KindTransport.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.Get(ctx, url, f.headers)
	if err != nil {
		return nil, domain.NewFeedError(domain.KindTransport, url, err)
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, domain.NewFeedError(domain.KindTransport, url,
			fmt.Errorf("status %d body: %s", code, responseSnippet(body)))
	}

	return body, nil
}

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
