package api

import "time"

// ServerConfig configures the local control API.
type ServerConfig struct {
	Addr              string        `help:"API server listen address; empty disables the API" default:"127.0.0.1:3243" env:"STRATAPAD_API_ADDR"`
	ConnectionTimeout time.Duration `help:"Idle timeout for request/response connections" default:"30s" env:"STRATAPAD_API_CONN_TIMEOUT"`
}
