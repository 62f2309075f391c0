package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Alia5/stratapad/apitypes"
)

// Client provides a high-level interface to the control API, handling
// request formatting, response parsing and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client for the server at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport, mostly for tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping checks that the server is reachable and reports its version.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	line, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](line)
}

// Loadout returns every slot with its remaining cooldown.
func (c *Client) Loadout() (*apitypes.LoadoutResponse, error) {
	return c.LoadoutCtx(context.Background())
}

func (c *Client) LoadoutCtx(ctx context.Context) (*apitypes.LoadoutResponse, error) {
	line, err := c.transport.DoCtx(ctx, "loadout", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.LoadoutResponse](line)
}

// SetSlot assigns the named stratagem to a slot ("A", "B", "X" or "Y").
// An empty name empties the slot.
func (c *Client) SetSlot(slot, name string) (*apitypes.LoadoutResponse, error) {
	return c.SetSlotCtx(context.Background(), slot, name)
}

func (c *Client) SetSlotCtx(ctx context.Context, slot, name string) (*apitypes.LoadoutResponse, error) {
	if name == "" {
		name = "-"
	}
	const path = "loadout/{slot}/set"
	line, err := c.transport.DoCtx(ctx, path, name, map[string]string{"slot": slot})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.LoadoutResponse](line)
}

// ClearCooldowns resets every slot's cooldown.
func (c *Client) ClearCooldowns() (*apitypes.LoadoutResponse, error) {
	return c.ClearCooldownsCtx(context.Background())
}

func (c *Client) ClearCooldownsCtx(ctx context.Context) (*apitypes.LoadoutResponse, error) {
	line, err := c.transport.DoCtx(ctx, "cooldowns/clear", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.LoadoutResponse](line)
}

// Resync starts a loadout resync on the server.
func (c *Client) Resync() (*apitypes.ResyncResponse, error) {
	return c.ResyncCtx(context.Background())
}

func (c *Client) ResyncCtx(ctx context.Context) (*apitypes.ResyncResponse, error) {
	line, err := c.transport.DoCtx(ctx, "resync", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ResyncResponse](line)
}

// Stratagems lists the server's definition library.
func (c *Client) Stratagems() (*apitypes.StratagemsResponse, error) {
	return c.StratagemsCtx(context.Background())
}

func (c *Client) StratagemsCtx(ctx context.Context) (*apitypes.StratagemsResponse, error) {
	line, err := c.transport.DoCtx(ctx, "stratagems", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.StratagemsResponse](line)
}

// Events streams change notifications to fn until ctx is done.
func (c *Client) Events(ctx context.Context, fn func(apitypes.Event) error) error {
	return c.transport.Stream(ctx, "events", func(line string) error {
		ev, err := parse[apitypes.Event](line)
		if err != nil {
			return err
		}
		return fn(*ev)
	})
}

func parse[T any](line string) (*T, error) {
	if line == "" {
		return nil, errors.New("empty response")
	}
	var ae apitypes.ApiError
	if err := json.Unmarshal([]byte(line), &ae); err == nil && ae.Error != "" {
		return nil, errors.New(ae.Error)
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
