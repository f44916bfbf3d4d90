// Package socks4test runs a minimal SOCKS4/SOCKS4a proxy for tests.
package socks4test

import (
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	version        = 4
	commandConnect = 1
	granted        = 0x5a
	rejected       = 0x5b
)

type Server struct {
	ln net.Listener

	mu      sync.Mutex
	targets []string
}

// NewServer starts a proxy on a loopback port; it is closed with the test.
func NewServer(t *testing.T) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	s := &Server{ln: ln}
	t.Cleanup(func() { _ = ln.Close() })

	go s.accept()
	return s
}

func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.ln.Addr().String())
	return host
}

func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Targets lists the host:port pairs clients asked the proxy to connect to.
func (s *Server) Targets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.targets...)
}

func (s *Server) accept() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	head := make([]byte, 8)
	if _, err := io.ReadFull(r, head); err != nil || head[0] != version || head[1] != commandConnect {
		return
	}
	if _, err := r.ReadString(0); err != nil {
		return
	}

	host := net.IP(head[4:8]).String()
	// SOCKS4a marks a hostname with the address 0.0.0.x, x != 0.
	if head[4] == 0 && head[5] == 0 && head[6] == 0 && head[7] != 0 {
		name, err := r.ReadString(0)
		if err != nil {
			return
		}
		host = strings.TrimSuffix(name, "\x00")
	}
	target := net.JoinHostPort(host, strconv.Itoa(int(binary.BigEndian.Uint16(head[2:4]))))

	s.mu.Lock()
	s.targets = append(s.targets, target)
	s.mu.Unlock()

	upstream, err := net.Dial("tcp", target)
	if err != nil {
		_, _ = conn.Write([]byte{0, rejected, 0, 0, 0, 0, 0, 0})
		return
	}
	defer upstream.Close()

	if _, err := conn.Write([]byte{0, granted, 0, 0, 0, 0, 0, 0}); err != nil {
		return
	}

	go func() {
		_, _ = io.Copy(upstream, r)
		if tcp, ok := upstream.(*net.TCPConn); ok {
			_ = tcp.CloseWrite()
		}
	}()
	_, _ = io.Copy(conn, upstream)
}
