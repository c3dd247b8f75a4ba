package proxyhandler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"starproxy/internal/metrics"
	"starproxy/internal/shared/logger"
)

// forward sends c.Request upstream via the shared client using the given
// outbound header set, and streams the response back unchanged. A
// transport error surfaces to the client as 500 with the error text as
// the body.
func (h *handler) forward(c *gin.Context, outHeaders http.Header) {
	proxyReq, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, c.Request.URL.String(), c.Request.Body)
	if err != nil {
		h.forwardFailed(c, err)
		return
	}
	proxyReq.Header = outHeaders
	proxyReq.Host = h.upstreamAuthority
	proxyReq.ContentLength = c.Request.ContentLength

	resp, err := h.client.Do(proxyReq)
	if err != nil {
		h.forwardFailed(c, err)
		return
	}
	defer resp.Body.Close()

	for name, values := range resp.Header {
		for _, value := range values {
			c.Writer.Header().Add(name, value)
		}
	}
	c.Writer.WriteHeader(resp.StatusCode)
	io.Copy(c.Writer, resp.Body)

	metrics.RequestsTotal.WithLabelValues("forwarded").Inc()
}

func (h *handler) forwardFailed(c *gin.Context, err error) {
	logger.Error("upstream forward failed", zap.Error(err))
	metrics.RequestsTotal.WithLabelValues("error").Inc()
	c.String(http.StatusInternalServerError, err.Error())
	c.Abort()
}
