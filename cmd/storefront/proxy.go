package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

func newSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target URL '%s': %w", targetHost, err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("target URL '%s' must be absolute", targetHost)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error("Proxy: error for %s %s to %s", err, req.Method, req.URL.Path, targetURL)
		http.Error(rw, "Storefront API unavailable or proxy error", http.StatusBadGateway)
	}
	return proxy, nil
}

// proxyHandler forwards /api/*path to the remote API. The /api prefix is
// dropped; the target's own path (e.g. /api) is prepended by the proxy.
func proxyHandler(proxy *httputil.ReverseProxy) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request.Clone(c.Request.Context())
		req.URL.Path = c.Param("path")
		req.URL.RawPath = ""
		proxy.ServeHTTP(c.Writer, req)
	}
}
