package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/api/metrics"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

// Audit writes one request log row per request after the response has been
// produced. It must be the outermost middleware (registered first with
// e.Pre) so the path is captured before any rewriting and errors are
// rendered before the status is read. Write failures are logged and counted,
// never returned to the client.
func Audit(audits ports.AuditService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			method := strings.ToLower(req.Method)

			if err := next(c); err != nil {
				c.Error(err)
			}

			entry := &domain.RequestLog{
				Host:       req.Host,
				URLPath:    path,
				ViewMethod: method,
				RemoteAddr: ClientIP(req),
				StatusCode: c.Response().Status,
			}
			if user, ok := CurrentUser(c); ok {
				id := user.ID
				entry.UserID = &id
				entry.Username = user.Username
			} else {
				entry.Username = domain.AnonymousUsername
			}

			// the client may already be gone; the row is still written
			ctx := context.WithoutCancel(req.Context())
			if err := audits.Record(ctx, entry); err != nil {
				if errors.Is(err, domain.ErrInvalidRequestLog) {
					metrics.AuditWritesTotal.WithLabelValues("invalid").Inc()
					log.Warn().Err(err).Str("path", path).Msg("request log dropped")
				} else {
					metrics.AuditWritesTotal.WithLabelValues("failed").Inc()
					log.Error().Err(err).Str("path", path).Msg("request log write failed")
				}
				return nil
			}

			metrics.AuditWritesTotal.WithLabelValues("recorded").Inc()
			return nil
		}
	}
}

// ClientIP returns X-Forwarded-For verbatim when present, otherwise the peer
// address without its port.
func ClientIP(req *http.Request) string {
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
