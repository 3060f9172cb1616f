package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// metricsMiddleware records one request per matched route.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(srw, r)

		s.metrics.RecordRequest(routeTemplate(r), srw.statusCode, time.Since(start))
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", srw.statusCode,
			"duration", time.Since(start))
	})
}

// statusResponseWriter captures the status code.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// routeTemplate keeps the metric label bounded: /api/transactions/{id}
// instead of one label per id.
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.URL.Path
	}

	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return r.URL.Path
	}
	return tmpl
}
