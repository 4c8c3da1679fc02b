package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsRecorder records HTTP metrics
type MetricsRecorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()
}

// statusWriter captures the status code and body size
type statusWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	wroteHeader  bool
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.statusCode = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// Metrics records request count, latency and in-flight gauge. Paths not in
// knownPaths are reported as "other" to bound label cardinality.
func Metrics(recorder MetricsRecorder, knownPaths ...string) func(http.Handler) http.Handler {
	known := make(map[string]struct{}, len(knownPaths))
	for _, p := range knownPaths {
		known[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder.IncHTTPRequestsInFlight()
			defer recorder.DecHTTPRequestsInFlight()

			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := r.URL.Path
			if len(known) > 0 {
				if _, ok := known[path]; !ok {
					path = "other"
				}
			}
			recorder.RecordHTTPRequest(r.Method, path, strconv.Itoa(sw.statusCode), time.Since(start))
		})
	}
}
