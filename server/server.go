package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"onefight/game"
)

// Server is the optional spectator and admin HTTP server running next to a
// match. It only reads frames and queues control requests; it never touches
// the roster.
type Server struct {
	Hub *Hub

	srv *http.Server
	ln  net.Listener
}

// Start listens on addr and serves the router for match. The registry is
// created here so every server exports its own match.
func Start(addr string, match MatchControl, metrics *game.Metrics, hub *Hub) (*Server, error) {
	reg := prometheus.NewRegistry()
	if err := RegisterMetrics(reg, metrics); err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		Hub: hub,
		srv: &http.Server{
			Handler:           NewRouter(match, metrics, hub, reg),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln: ln,
	}
	go func() {
		Log.Infof("spectator server listening on %s", ln.Addr())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Log.Errorf("serve: %v", err)
		}
	}()
	return s, nil
}

// Addr is the address the server listens on.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Close disconnects spectators and stops the HTTP server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return multierr.Append(s.Hub.Close(), s.srv.Shutdown(ctx))
}
