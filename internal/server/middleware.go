package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	sessionIDKey    = "session_id"

	// sessionMaxAge keeps the session cookie for a year.
	sessionMaxAge = 365 * 24 * 60 * 60
)

// requestIDMiddleware reuses an incoming X-Request-ID or assigns a new one.
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = s.requestID()
		}
		c.Set(requestIDKey, reqID)
		c.Header(requestIDHeader, reqID)
		c.Next()
	}
}

// requestIDFrom returns the request ID stored by requestIDMiddleware.
func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func (s *Server) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", requestIDFrom(c),
		}
		if err := c.Errors.Last(); err != nil {
			attrs = append(attrs, "error", err.Err)
		}

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "http request", attrs...)
	}
}

func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
					"request_id", requestIDFrom(c),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
					Error: errorBody{Code: codeInternal, Message: "internal server error"},
				})
			}
		}()
		c.Next()
	}
}

// sessionMiddleware issues a session cookie to requests that carry none and
// counts exactly one visit for it. A failed count is logged and the request
// continues.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
			c.Set(sessionIDKey, id)
			c.Next()
			return
		}

		id := s.sessionID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)
		c.Set(sessionIDKey, id)

		if err := s.svc.RecordVisit(c.Request.Context()); err != nil {
			s.logger.Warn("failed to record visit",
				"session", id,
				"request_id", requestIDFrom(c),
				"error", err,
			)
		}

		c.Next()
	}
}

// rateLimitMiddleware rejects requests once the shared token bucket is empty.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			s.logger.Warn("submission rate limited",
				"client_ip", c.ClientIP(),
				"request_id", requestIDFrom(c),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error: errorBody{Code: codeRateLimited, Message: "too many submissions, retry later"},
			})
			return
		}
		c.Next()
	}
}
