package source

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/NordCoder/Exposerus/internal/obs"
	"github.com/go-resty/resty/v2"
)

type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// NewClient builds the resty client shared by all adapters.
func NewClient(cfg HTTPConfig) *resty.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
	hc := &http.Client{Timeout: cfg.Timeout, Transport: obs.HTTPTransport(transport)}

	c := resty.NewWithClient(hc)
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	return c
}
