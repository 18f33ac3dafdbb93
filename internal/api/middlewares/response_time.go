package middlewares

import (
	"log"
	"net/http"
	"time"
)

type rtWriter struct {
	http.ResponseWriter
	start   time.Time
	stamped bool
	status  int
	bytes   int
}

func (w *rtWriter) stamp() {
	if !w.stamped {
		w.Header().Set("X-Response-Time", time.Since(w.start).String())
		w.stamped = true
	}
}

func (w *rtWriter) WriteHeader(code int) {
	if !w.stamped {
		w.status = code
	}
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *rtWriter) Write(b []byte) (int, error) {
	w.stamp()
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *rtWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// ResponseTimeMiddleware stamps X-Response-Time and writes one access line
// per request. Requests slower than slowRequest are flagged.
func ResponseTimeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &rtWriter{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
		next.ServeHTTP(rw, r)
		rw.stamp()

		took := time.Since(rw.start)
		tag := "[HTTP]"
		if took > slowRequest {
			tag = "[HTTP][slow]"
		}
		log.Printf("%s %s %s -> %d (%dB) in %s rid=%s",
			tag, r.Method, r.URL.Path, rw.status, rw.bytes, took.Round(time.Microsecond), GetRequestID(r))
	})
}

const slowRequest = 3 * time.Second
