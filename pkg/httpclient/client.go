package httpclient

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the subset of an HTTP response the harvester reads.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client issues GET requests. Implementations must be safe for concurrent use.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// Options tunes the shared client.
type Options struct {
	// Timeout bounds the whole request including the body download.
	Timeout time.Duration
	// ConnectTimeout bounds dialing the remote host.
	ConnectTimeout time.Duration
	// UserAgent is sent with every request when set.
	UserAgent string
	// MaxIdleConnsPerHost sizes the keep-alive pool per host.
	MaxIdleConnsPerHost int
}

type restyClient struct {
	client *resty.Client
}

// NewRestyClient returns a Client with the given overall timeout.
func NewRestyClient(timeout time.Duration) Client {
	return New(Options{Timeout: timeout})
}

// New builds one resty-backed Client. Share it across goroutines; the
// underlying transport pools connections and handles its own locking.
func New(opts Options) Client {
	dialer := &net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	idle := opts.MaxIdleConnsPerHost
	if idle <= 0 {
		idle = 4
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: idle,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	c := resty.New().
		SetTransport(transport).
		SetTimeout(opts.Timeout).
		SetRetryCount(0)
	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}

	return &restyClient{client: c}
}

// Get performs one GET and reads the full body.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
