package stockpulse

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http2"
)

// NewHTTP2Client builds an HTTP client that speaks HTTP/2 only. For an
// "http://" baseURL it dials cleartext with prior knowledge (h2c), which the
// backend must support; otherwise it negotiates HTTP/2 over TLS 1.2+.
func NewHTTP2Client(baseURL string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http2.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}
	if strings.HasPrefix(baseURL, "http://") {
		transport.AllowHTTP = true
		transport.DialTLSContext = func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		}
	}

	return &http.Client{Transport: transport, Timeout: timeout}
}
