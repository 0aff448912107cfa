// Package httpserver owns the http.Server construction so timeouts are set
// in exactly one place.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server with sane read/write bounds for a browser-facing API.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
