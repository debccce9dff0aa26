package server

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nilotpal-labs/ignitekv/internal/codec"
	"github.com/nilotpal-labs/ignitekv/internal/engine"
	"github.com/nilotpal-labs/ignitekv/internal/pool"
	"github.com/nilotpal-labs/ignitekv/pkg/options"
)

func newTestServer(t *testing.T) (*Server, *engine.Engine) {
	t.Helper()

	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentThreshold = 1024 * 1024
	opts.CompactionThreshold = options.CompactionThreshold

	e, err := engine.Open(context.Background(), &engine.Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	p := pool.NewSharedQueuePool(4, zap.NewNop().Sugar())

	s, err := New(&Config{
		Addr:   "127.0.0.1:0",
		Engine: e,
		Pool:   p,
		Logger: zap.NewNop().Sugar(),
	})
	require.NoError(t, err)

	go s.Serve()
	t.Cleanup(func() {
		s.Close()
		e.Close()
	})

	return s, e
}

func roundTrip(t *testing.T, addr string, req codec.Request) codec.Response {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write(codec.EncodeRequest(req))
	require.NoError(t, err)

	tcpConn := conn.(*net.TCPConn)
	require.NoError(t, tcpConn.CloseWrite())

	raw, err := readAllFrom(conn)
	require.NoError(t, err)

	resp, err := codec.DecodeResponse(raw)
	require.NoError(t, err)
	return resp
}

func readAllFrom(conn net.Conn) ([]byte, error) {
	buf := make([]byte, 0, 256)
	chunk := make([]byte, 256)
	for {
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			return buf, nil
		}
	}
}

func TestServerSetGetRemoveRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)

	setResp := roundTrip(t, s.Addr(), codec.Request{Op: codec.ReqSet, Key: "k1", Value: "v1"})
	require.True(t, setResp.Success)

	getResp := roundTrip(t, s.Addr(), codec.Request{Op: codec.ReqGet, Key: "k1"})
	require.True(t, getResp.Success)
	require.NotNil(t, getResp.Result)
	require.Equal(t, "v1", *getResp.Result)

	rmResp := roundTrip(t, s.Addr(), codec.Request{Op: codec.ReqRm, Key: "k1"})
	require.True(t, rmResp.Success)

	missResp := roundTrip(t, s.Addr(), codec.Request{Op: codec.ReqGet, Key: "k1"})
	require.True(t, missResp.Success)
	require.Nil(t, missResp.Result)
}

func TestServerRemoveMissingKeyReturnsFail(t *testing.T) {
	s, _ := newTestServer(t)

	resp := roundTrip(t, s.Addr(), codec.Request{Op: codec.ReqRm, Key: "missing"})
	require.False(t, resp.Success)
	require.Equal(t, "Key not found", resp.Message)
}

func TestServerServesConcurrentConnections(t *testing.T) {
	s, _ := newTestServer(t)

	done := make(chan struct{}, 8)
	for i := 0; i < 8; i++ {
		i := i
		go func() {
			defer func() { done <- struct{}{} }()
			resp := roundTrip(t, s.Addr(), codec.Request{Op: codec.ReqSet, Key: "k", Value: "v"})
			require.True(t, resp.Success)
			_ = i
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
