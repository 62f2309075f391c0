// Package api implements the line-based TCP control API: one command per
// line, one JSON line per reply.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

// Server serves the control API.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server listening on addr once started.
func New(addr string, config ServerConfig, logger *slog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		logger: logger,
		config: config,
		router: NewRouter(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Router returns the router so callers can register handlers.
func (a *Server) Router() *Router { return a.router }

// Config returns the server configuration.
func (a *Server) Config() ServerConfig { return a.config }

// Addr returns the listen address, resolved once started.
func (a *Server) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ln != nil {
		return a.ln.Addr().String()
	}
	return a.addr
}

// Start listens on the configured address and serves in the background.
func (a *Server) Start() error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.ln = ln
	a.mu.Unlock()
	a.logger.Info("API listening", "addr", ln.Addr().String())
	go a.serve(ln)
	return nil
}

// Run starts the server and blocks until ctx is done.
func (a *Server) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	a.Close()
	return nil
}

// Close stops accepting and ends open stream connections.
func (a *Server) Close() {
	a.cancel()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ln != nil {
		_ = a.ln.Close()
	}
}

func (a *Server) serve(ln net.Listener) {
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				a.logger.Info("API server stopped")
				return
			}
			a.logger.Info("API accept error", "error", err)
			return
		}
		go a.handleConn(c)
	}
}

func writeError(w io.Writer, msg string) {
	problem := map[string]string{"error": msg}
	problemJSON, _ := json.Marshal(problem)
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func writeOK(w io.Writer, rest string) {
	if rest == "" {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s\n", rest)
	}
}

func (a *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connCtx, connCancel := context.WithCancel(a.ctx)
	defer connCancel()

	connLogger := a.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)
	for {
		if a.config.ConnectionTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(a.config.ConnectionTimeout))
		}
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				connLogger.Debug("read api line", "error", err)
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		connLogger.Debug("api cmd", "cmd", line)
		fields := strings.Fields(line)
		path := strings.ToLower(fields[0])
		args := fields[1:]
		req := &Request{Ctx: connCtx, Args: args}

		if h, params := a.router.Match(path); h != nil {
			req.Params = params
			res := &Response{}
			if err := h(req, res, connLogger); err != nil {
				connLogger.Error("api handler error", "path", path, "error", err)
				writeError(conn, err.Error())
				continue
			}
			writeOK(conn, res.JSON)
			continue
		}

		if sh, params := a.router.MatchStream(path); sh != nil {
			req.Params = params
			_ = conn.SetReadDeadline(time.Time{})
			connLogger.Info("api stream begin", "path", path)
			if err := sh(req, conn, connLogger); err != nil {
				connLogger.Error("api stream handler error", "path", path, "error", err)
			}
			connLogger.Info("api stream end", "path", path)
			return
		}

		connLogger.Warn("api unknown path", "path", path)
		writeError(conn, "unknown path")
	}
}
