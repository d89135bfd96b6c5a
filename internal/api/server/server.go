package server

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
)

// New returns an HTTP server for router. Write timeout is left open because
// the generate endpoints wait on question generation.
func New(addr string, router *ginext.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
