package server

import (
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/nilotpal-labs/ignitekv/internal/codec"
	"github.com/nilotpal-labs/ignitekv/internal/engine"
	"github.com/nilotpal-labs/ignitekv/pkg/errors"
)

// halfCloser is satisfied by *net.TCPConn and *net.UnixConn; it lets a
// worker finish writing a response without tearing down the whole
// connection before the client has drained it.
type halfCloser interface {
	CloseWrite() error
}

// handleConnection services exactly one request: read to end-of-stream,
// decode, execute against e, encode a response, write it, half-close,
// and drop the connection. It does not recover panics; a job panic is
// the pool's concern, not the connection's.
func handleConnection(conn net.Conn, e *engine.Engine, log *zap.SugaredLogger, connID uint64) {
	defer conn.Close()

	connLog := log.With("conn_id", connID, "remote_addr", conn.RemoteAddr().String())
	connLog.Debugw("connection accepted")

	raw, err := io.ReadAll(conn)
	if err != nil {
		connLog.Warnw("failed to read request", "error", err)
		return
	}

	req, err := codec.DecodeRequest(raw)
	if err != nil {
		connLog.Warnw("failed to decode request", "error", err)
		writeResponse(conn, connLog, codec.Response{Success: false, Message: err.Error()})
		return
	}

	resp := dispatch(e, req)
	if !resp.Success {
		connLog.Warnw("request failed", "op", req.Op, "error", resp.Message)
	}
	writeResponse(conn, connLog, resp)
}

// dispatch executes req against e and translates the outcome into a
// wire Response. It never returns an error: any failure becomes Fail.
func dispatch(e *engine.Engine, req codec.Request) codec.Response {
	switch req.Op {
	case codec.ReqSet:
		if err := e.Set(req.Key, req.Value); err != nil {
			return failResponse(err)
		}
		return codec.Response{Success: true}

	case codec.ReqGet:
		value, ok, err := e.Get(req.Key)
		if err != nil {
			return failResponse(err)
		}
		if !ok {
			return codec.Response{Success: true, Result: nil}
		}
		return codec.Response{Success: true, Result: &value}

	case codec.ReqRm:
		if err := e.Remove(req.Key); err != nil {
			return failResponse(err)
		}
		return codec.Response{Success: true}

	default:
		return codec.Response{Success: false, Message: fmt.Sprintf("unrecognized request op %q", req.Op)}
	}
}

func failResponse(err error) codec.Response {
	if ie, ok := errors.AsIndexError(err); ok && ie.Code() == errors.ErrorCodeKeyNotFound {
		return codec.Response{Success: false, Message: "Key not found"}
	}
	return codec.Response{Success: false, Message: err.Error()}
}

// writeResponse encodes and writes resp, then half-closes the write
// side if the connection supports it. Write failures are logged, not
// propagated, since the connection is being dropped regardless.
func writeResponse(conn net.Conn, log *zap.SugaredLogger, resp codec.Response) {
	if _, err := conn.Write(codec.EncodeResponse(resp)); err != nil {
		log.Warnw("failed to write response", "error", err)
		return
	}
	if hc, ok := conn.(halfCloser); ok {
		if err := hc.CloseWrite(); err != nil {
			log.Debugw("half-close failed", "error", err)
		}
	}
}
