// Package server implements the TCP front end: bind, accept, and hand
// each connection to a worker pool for request/response dispatch
// against a shared engine handle.
package server

import (
	stderrors "errors"
	"net"

	"github.com/nilotpal-labs/ignitekv/pkg/errors"
)

// New binds config.Addr and returns a Server ready to Serve.
func New(config *Config) (*Server, error) {
	if config == nil || config.Addr == "" || config.Engine == nil || config.Pool == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "server configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	listener, err := net.Listen("tcp", config.Addr)
	if err != nil {
		return nil, errors.NewServerError(err, errors.ErrorCodeIO, "failed to bind listen address").
			WithDetail("addr", config.Addr)
	}

	return &Server{
		addr:     config.Addr,
		listener: listener,
		engine:   config.Engine,
		pool:     config.Pool,
		log:      config.Logger,
	}, nil
}

// Addr returns the address the server is actually bound to, useful when
// Config.Addr used a ":0" ephemeral port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve accepts connections until the listener is closed, handing each
// one to the pool as a self-contained job. It returns once Close stops
// the accept loop.
func (s *Server) Serve() error {
	connID := uint64(0)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if stderrors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Errorw("accept failed", "error", err)
			continue
		}

		connID++
		id := connID
		s.pool.Spawn(func() {
			handleConnection(conn, s.engine, s.log, id)
		})
	}
}

// Close stops the accept loop and the worker pool, waiting for
// in-flight connections to finish.
func (s *Server) Close() error {
	if err := s.listener.Close(); err != nil {
		return errors.NewServerError(err, errors.ErrorCodeIO, "failed to close listener")
	}
	return s.pool.Close()
}
