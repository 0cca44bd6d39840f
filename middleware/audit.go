package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	clientIPKey    = "client_ip"
	requestMetaKey = "request_meta"
)

// Proxy headers that may carry the client address, most trusted first.
var forwardedHeaders = []string{"X-Real-Ip", "CF-Connecting-IP", "X-Forwarded"}

// RequestMeta is what the site records about the sender of a submission.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

// AuditMiddleware resolves the client address and request metadata once
// per request for audit entries and submissions.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := readMeta(c)
		c.Set(clientIPKey, meta.IP)
		c.Set(requestMetaKey, meta)
		c.Next()
	}
}

func readMeta(c *gin.Context) RequestMeta {
	return RequestMeta{
		IP:        clientIP(c),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
}

// clientIP takes the first valid address from X-Forwarded-For, then the
// single-address proxy headers, then the connection itself.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	for _, h := range forwardedHeaders {
		if ip := strings.TrimSpace(c.GetHeader(h)); ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// GetIPFromContext returns the client address resolved by AuditMiddleware.
func GetIPFromContext(c *gin.Context) string {
	if ip := c.GetString(clientIPKey); ip != "" {
		return ip
	}
	return clientIP(c)
}

// GetRequestMeta returns the metadata resolved by AuditMiddleware, reading
// it from the request when the middleware did not run.
func GetRequestMeta(c *gin.Context) RequestMeta {
	if v, ok := c.Get(requestMetaKey); ok {
		if meta, ok := v.(RequestMeta); ok {
			return meta
		}
	}
	return readMeta(c)
}
