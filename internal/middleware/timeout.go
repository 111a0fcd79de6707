package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// Timeout aborts requests that run longer than d with a 408 and the standard
// JSON error shape.
//
// The handler runs in its own goroutine against a buffered writer; nothing
// reaches the client until the handler finishes. That buffering is what makes
// the timeout safe — without it, a handler that already wrote half a response
// could not be replaced by the 408. The cost is that responses are held in
// memory, which is fine for this API's JSON payloads; the static file routes
// are mounted outside this middleware.
//
// The request context is cancelled at the deadline, so database calls in an
// abandoned handler unwind promptly instead of running to completion.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			r = r.WithContext(ctx)

			buf := &bufferedWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicChan := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
				}()
				next.ServeHTTP(buf, r)
				close(done)
			}()

			select {
			case p := <-panicChan:
				// Re-panic on the request goroutine so the recoverer
				// middleware sees it.
				panic(p)
			case <-done:
				buf.flush(w)
			case <-ctx.Done():
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestTimeout)
				w.Write([]byte(`{"error":"request_timeout","details":"the request took too long to process"}`))
			}
		})
	}
}

// bufferedWriter holds the full response until the handler returns.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.status == 0 {
		bw.status = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	for key, values := range bw.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	w.WriteHeader(bw.status)
	w.Write(bw.body.Bytes())
}
