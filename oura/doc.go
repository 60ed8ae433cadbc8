// Package oura is a read-only client for the Oura cloud API.
//
// A Client is built from a token obtained through package authflow. It
// refreshes that token transparently, on expiry or when the API answers 401,
// and reports every refreshed token to the caller's token.Saver:
//
//	client, err := oura.NewClient(oura.Config{
//		ClientID:     clientID,
//		ClientSecret: clientSecret,
//		Token:        tok,
//		TokenSaver:   func(t *oauth2.Token) { save(t) },
//		RefreshURL:   "https://api.ouraring.com/oauth/token",
//		BaseURL:      "https://api.ouraring.com",
//	})
//	sleep, err := client.GetSleep(ctx, "2023-01-01", "")
//
// Responses are returned as decoded JSON (map[string]any, []any or a scalar).
// A 401 that survives the refresh is recorded on the DiagnosticSink and its
// body is still returned, so callers inspect the payload to detect it.
package oura
