package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/Alia5/stratapad/apitypes"
	"github.com/Alia5/stratapad/dispatch"
	"github.com/Alia5/stratapad/internal/server/api"
)

// Events returns a stream handler writing one JSON line per loadout change
// until the client disconnects or the server stops.
func Events(e *dispatch.Engine) api.StreamHandlerFunc {
	return func(req *api.Request, conn net.Conn, logger *slog.Logger) error {
		changes, cancel := e.Subscribe()
		defer cancel()

		gone := make(chan struct{})
		go func() {
			defer close(gone)
			_, _ = io.Copy(io.Discard, conn)
		}()

		enc := json.NewEncoder(conn)
		if err := enc.Encode(apitypes.Event{Event: "subscribed"}); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		for {
			select {
			case <-req.Ctx.Done():
				return nil
			case <-gone:
				logger.Debug("events client gone")
				return nil
			case c, ok := <-changes:
				if !ok {
					return nil
				}
				ev := apitypes.Event{Event: "loadout", Reason: c.Reason, At: c.At.Format(time.RFC3339)}
				if err := enc.Encode(ev); err != nil {
					return fmt.Errorf("write event: %w", err)
				}
			}
		}
	}
}
