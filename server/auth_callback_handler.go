package server

import (
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog/log"
)

func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Parse form to support both GET (query params) and POST (form_post response mode)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid callback", http.StatusBadRequest)
			return
		}

		// Rebuild the URL the vendor redirected to so state and code are
		// verified by the flow itself
		callback := *s.redirectURL
		callback.RawQuery = r.Form.Encode()

		tok, err := s.flow.ExchangeToken(r.Context(), callback.String(), "")
		s.deliver(result{Token: tok, Err: err})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err != nil {
			log.Warn().Err(err).Msg("authorization callback failed")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, resultHTML("Authorization failed", html.EscapeString(err.Error())))
			return
		}
		fmt.Fprint(w, resultHTML("Authorization successful!", "You can close this window and return to the terminal."))
	}
}

// deliver keeps the first unread result; later callbacks are dropped.
func (s *Server) deliver(res result) {
	select {
	case s.results <- res:
	default:
		log.Debug().Msg("callback result dropped, previous result not yet read")
	}
}

func resultHTML(title, message string) string {
	return `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Oura authorization</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h2>` + html.EscapeString(title) + `</h2>
<p>` + message + `</p>
</body>
</html>`
}
