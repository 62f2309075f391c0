package api

import (
	"context"
	"log/slog"
	"net"
	"sort"
	"strings"
)

// Request is one parsed API command line.
type Request struct {
	Ctx    context.Context
	Params map[string]string
	Args   []string
}

// Response carries the single JSON line written back on success.
type Response struct {
	JSON string
}

// HandlerFunc serves a request/response route. Returned errors are written to
// the client as {"error": "..."}.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// StreamHandlerFunc takes ownership of the connection until it returns.
type StreamHandlerFunc func(req *Request, conn net.Conn, logger *slog.Logger) error

type route[H any] struct {
	pattern  string
	segments []string
	handler  H
}

// Router matches slash-separated paths against patterns. A segment written
// as {name} captures the path segment into Params under that name.
type Router struct {
	routes  []route[HandlerFunc]
	streams []route[StreamHandlerFunc]
}

// NewRouter returns an empty router.
func NewRouter() *Router { return &Router{} }

// Register adds a request/response route.
func (r *Router) Register(pattern string, h HandlerFunc) {
	r.routes = append(r.routes, newRoute(pattern, h))
}

// RegisterStream adds a streaming route.
func (r *Router) RegisterStream(pattern string, h StreamHandlerFunc) {
	r.streams = append(r.streams, newRoute(pattern, h))
}

// Match finds the handler for path.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	return match(r.routes, path)
}

// MatchStream finds the stream handler for path.
func (r *Router) MatchStream(path string) (StreamHandlerFunc, map[string]string) {
	return match(r.streams, path)
}

// Patterns lists every registered pattern, sorted.
func (r *Router) Patterns() []string {
	var out []string
	for _, rt := range r.routes {
		out = append(out, rt.pattern)
	}
	for _, rt := range r.streams {
		out = append(out, rt.pattern)
	}
	sort.Strings(out)
	return out
}

func newRoute[H any](pattern string, h H) route[H] {
	pattern = strings.Trim(pattern, "/")
	return route[H]{pattern: pattern, segments: strings.Split(pattern, "/"), handler: h}
}

func match[H any](routes []route[H], path string) (H, map[string]string) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for _, rt := range routes {
		if params, ok := matchSegments(rt.segments, segs); ok {
			return rt.handler, params
		}
	}
	var zero H
	return zero, nil
}

func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if path[i] == "" {
				return nil, false
			}
			params[p[1:len(p)-1]] = path[i]
			continue
		}
		if !strings.EqualFold(p, path[i]) {
			return nil, false
		}
	}
	return params, true
}
