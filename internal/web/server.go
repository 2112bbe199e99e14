// Package web serves the controller's current levels and frame rate over HTTP.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sweeney/rgbcal/internal/status"
)

// Server is the status page. It only reads from the tracker.
type Server struct {
	srv     *http.Server
	tracker *status.Tracker
}

// New creates a Server on addr. Routes:
//
//	GET /, /index.html   HTML page
//	GET /index.json      full snapshot as JSON
//	GET /status.txt      the status line, as logged on every change
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.page)
	mux.HandleFunc("GET /index.html", s.page)
	mux.HandleFunc("GET /index.json", s.snapshotJSON)
	mux.HandleFunc("GET /status.txt", s.statusLine)
	return mux
}

// ListenAndServe blocks until Shutdown.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) page(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.tracker.Snapshot())
}

func (s *Server) snapshotJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}

func (s *Server) statusLine(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.tracker.Snapshot().Status.String()+"\n")
}
