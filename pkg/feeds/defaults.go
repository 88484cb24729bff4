package feeds

import (
	"time"

	"github.com/Adda-Baaj/podcast-harvester/pkg/httpclient"
)

const (
	defaultTimeout        = 60 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// DefaultHTTPClient returns a client with the stock feed timeouts.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.New(httpclient.Options{
		Timeout:        defaultTimeout,
		ConnectTimeout: defaultConnectTimeout,
	})
}
