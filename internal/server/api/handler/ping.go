package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/stratapad/apitypes"
	"github.com/Alia5/stratapad/internal/server/api"
	"github.com/Alia5/stratapad/internal/version"
)

// Ping returns a handler for the "ping" endpoint.
// It provides a minimal identity + version response.
func Ping() api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, logger *slog.Logger) error {
		payload := apitypes.PingResponse{Server: "stratapad", Version: version.Version}
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
