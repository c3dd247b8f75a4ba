// Package proxyhandler is the driver: for every inbound request it
// rewrites the authority, classifies the request, buffers and inspects
// the body when the request carries SQL, evaluates the configured rules
// in order, applies at most one terminal action, and forwards the
// (possibly header-mutated) request upstream.
package proxyhandler

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"starproxy/internal/infrastructure/config"
	"starproxy/internal/interfaces/http/middleware"
	"starproxy/internal/rules"
)

// NewEngine builds the gin engine wired with the recovery/logging
// middleware, a static /metrics route, and the proxy handler mounted via
// NoRoute as the fallback for everything else — Any("/*path", ...) would
// conflict with the /metrics static route on the same method tree and
// panic at registration time. The whole engine is wrapped in an overall
// request timeout per the configured limits.
func NewEngine(cfg *config.Config, ruleConfig *rules.Config) (http.Handler, error) {
	h := &handler{
		upstreamAuthority: cfg.Upstream.Authority,
		upstreamPort:      cfg.Upstream.Port,
		ruleConfig:        ruleConfig,
		maxBodyBytes:      cfg.Limits.MaxBodyBytes,
		explainTimeout:    time.Duration(cfg.Limits.ExplainTimeout) * time.Second,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{}, // native root store, no pinning
			},
		},
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.CustomLogger())
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.NoRoute(h.handle)

	overall := time.Duration(cfg.Limits.RequestTimeout) * time.Second
	return http.TimeoutHandler(engine, overall, "request timed out"), nil
}
