package utils

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient builds the client used for upstream provider calls. When
// proxyAddr is set, connections are dialed through that SOCKS5 proxy.
// A zero timeout leaves requests unbounded, which streaming responses need.
func NewHTTPClient(proxyAddr string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create socks5 dialer for %s: %w", proxyAddr, err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("socks5 dialer for %s does not support contexts", proxyAddr)
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer.DialContext
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
