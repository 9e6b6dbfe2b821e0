// Package log provides slog handlers that keep credentials out of log output.
//
// Subscription links usually embed an access token in the query string or
// userinfo, so values that look like URLs have those parts masked before
// they reach the underlying handler.
package log
