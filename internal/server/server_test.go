package server_test

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iamNilotpal/kvs/internal/client"
	"github.com/iamNilotpal/kvs/internal/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEngine is a minimal in-memory enginehandle.Engine used to exercise
// the server's wire protocol without depending on the log-structured
// engine's on-disk behavior.
type fakeEngine struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{data: make(map[string]string)}
}

func (f *fakeEngine) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeEngine) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeEngine) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return errKeyNotFound
	}
	delete(f.data, key)
	return nil
}

var errKeyNotFound = errors.New("key not present")

func (f *fakeEngine) Close() error { return nil }

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func startServer(t *testing.T, eng *fakeEngine) (*server.Server, string) {
	t.Helper()
	addr := freeAddr(t)
	srv := server.New(addr, eng, 2, zap.NewNop().Sugar())
	require.NoError(t, srv.Start())
	time.Sleep(20 * time.Millisecond)
	return srv, addr
}

func TestServerSetGetRemoveOverWire(t *testing.T) {
	eng := newFakeEngine()
	srv, addr := startServer(t, eng)
	defer srv.Stop()

	c := client.New(addr)
	require.NoError(t, c.Set("a", "1"))

	value, ok, err := c.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", value)

	require.NoError(t, c.Remove("a"))

	_, ok, err = c.Get("a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestServerGetMissingKeyReturnsNotFound(t *testing.T) {
	eng := newFakeEngine()
	srv, addr := startServer(t, eng)
	defer srv.Stop()

	c := client.New(addr)
	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func sendRaw(t *testing.T, addr, line string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(line))
	require.NoError(t, err)

	raw, err := io.ReadAll(conn)
	require.NoError(t, err)
	return strings.TrimRight(string(raw), "\n")
}

func TestWireProtocolFraming(t *testing.T) {
	eng := newFakeEngine()
	srv, addr := startServer(t, eng)
	defer srv.Stop()

	require.Equal(t, "OK:", sendRaw(t, addr, "SET:k:v\n"))
	require.Equal(t, "OK:dg==", sendRaw(t, addr, "GET:k\n"))
	require.Equal(t, "OK:Tk9ORQ==", sendRaw(t, addr, "GET:missing\n"))

	resp := sendRaw(t, addr, "BOGUS:x\n")
	require.True(t, strings.HasPrefix(resp, "ERR:"), "got %q", resp)
}

func TestServerExitShutsDownCleanly(t *testing.T) {
	eng := newFakeEngine()
	srv, addr := startServer(t, eng)

	c := client.New(addr)
	require.NoError(t, c.Exit())

	done := make(chan struct{})
	go func() {
		srv.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after EXIT")
	}

	_, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	require.Error(t, err, "listener should be closed after EXIT")
}
