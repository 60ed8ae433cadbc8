package transport

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-oura-client/internal/ui"
	"github.com/rs/zerolog/log"
)

// Logging logs every outgoing request in the DEV environment and is a no-op
// everywhere else.
func Logging(env string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if env != "DEV" {
			return next
		}
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			logRoute(req.Method, req.URL.Path, status, time.Since(start))
			return resp, err
		})
	}
}

func logRoute(method, path string, status int, elapsed time.Duration) {
	log.Printf("[%-19s] %s %s %s", ui.Method(method), path, ui.Status(status), elapsed.Round(time.Millisecond))
}
