package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Handler is an HTTP handler that knows the routes it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers on an [http.ServeMux] with request logging.
type Router struct {
	mux    *http.ServeMux
	logger *log.Logger
}

// NewRouter creates a Router that logs requests through logger.
func NewRouter(logger *log.Logger) *Router {
	return &Router{mux: http.NewServeMux(), logger: logger}
}

// Handle registers a plain handler func for path.
func (r *Router) Handle(path string, handler http.HandlerFunc) {
	r.mux.Handle(path, r.logRequests(handler))
}

// Handler registers every route of a [Handler].
func (r *Router) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Handle(route, r.logRequests(handler))
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		r.logger.Debugf("%s %s (%v)", req.Method, req.URL.Path, time.Since(start))
	})
}

// Addr returns the listen address for the callback or status server:
// all interfaces when exposed, loopback only otherwise.
func Addr(expose bool, port int) string {
	if expose {
		return fmt.Sprintf("0.0.0.0:%d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// New builds an [http.Server] on the router with a health endpoint attached.
func New(addr string, router *Router) *http.Server {
	router.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	return &http.Server{Addr: addr, Handler: router}
}
