package server

import (
	"net"

	"go.uber.org/zap"

	"github.com/nilotpal-labs/ignitekv/internal/engine"
	"github.com/nilotpal-labs/ignitekv/internal/pool"
)

// Server binds one TCP address and dispatches every accepted connection
// to a worker pool, which executes requests against a shared engine
// handle.
type Server struct {
	addr     string
	listener net.Listener
	engine   *engine.Engine
	pool     pool.ThreadPool
	log      *zap.SugaredLogger
}

// Config carries what Server needs to start listening and dispatching.
type Config struct {
	Addr   string
	Engine *engine.Engine
	Pool   pool.ThreadPool
	Logger *zap.SugaredLogger
}
