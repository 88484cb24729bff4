package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Webhook headers mirroring the queue attributes.
const (
	HeaderRoutingKey  = "X-Harvest-Routing-Key"
	HeaderStatus      = "X-Harvest-Status"
	HeaderFailureKind = "X-Harvest-Failure-Kind"
)

// httpSender posts sealed events to a webhook.
type httpSender struct {
	url     string
	method  string
	headers map[string]string
	client  *resty.Client
}

func newHTTPSender(_ context.Context, cfg PublisherConfig) (Sender, error) {
	c := cfg.HTTP
	if c == nil {
		return nil, errors.New("http section is missing")
	}
	timeout := c.timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &httpSender{
		url:     c.URL,
		method:  c.Method,
		headers: c.Headers,
		client:  resty.New().SetTimeout(timeout).SetHeader("Content-Type", "application/json"),
	}, nil
}

// Send treats any non-2xx answer as a failed delivery.
func (s *httpSender) Send(ctx context.Context, env Envelope) error {
	req := s.client.R().
		SetContext(ctx).
		SetHeaders(s.headers).
		SetHeader(HeaderRoutingKey, env.Key).
		SetHeader(HeaderStatus, env.Attributes[AttrStatus]).
		SetBody(env.Body)
	if kind := env.Attributes[AttrFailureKind]; kind != "" {
		req.SetHeader(HeaderFailureKind, kind)
	}

	method := s.method
	if method == "" {
		method = resty.MethodPost
	}
	resp, err := req.Execute(method, s.url)
	if err != nil {
		return err
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		body := strings.TrimSpace(resp.String())
		if len(body) > 256 {
			body = body[:256] + "..."
		}
		return fmt.Errorf("status %d: %s", code, body)
	}
	return nil
}

func (s *httpSender) Close() error { return nil }
