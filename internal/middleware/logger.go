// internal/middleware/logger.go
package middleware

import (
	"log"
	"net"
	"net/http"
	"time"
)

// ClientMetadata captures the remote IP and user agent so the request
// logger and handlers can reach them through the context.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &ClientInfo{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}
		next.ServeHTTP(w, r.WithContext(WithClientInfo(r.Context(), info)))
	})
}

// RequestLogger logs method, path, status, duration, and the user when
// authenticated.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		info := ClientInfoFromContext(r.Context())

		logLevel := "INFO"
		if sw.status >= http.StatusInternalServerError {
			logLevel = "ERROR"
		}

		if info.UserID != 0 {
			log.Printf("[%s] %s %s %d completed in %v (user: %d, ip: %s)",
				logLevel, r.Method, r.URL.Path, sw.status, duration, info.UserID, info.IPAddress)
		} else {
			log.Printf("[%s] %s %s %d completed in %v (ip: %s)",
				logLevel, r.Method, r.URL.Path, sw.status, duration, info.IPAddress)
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	// Trust the nearest proxy header when present.
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
