package apitypes

// Shared API response structs used by both handlers and clients.

type ApiError struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type Slot struct {
	Button string   `json:"button"`
	Name   string   `json:"name,omitempty"`
	Code   []string `json:"code,omitempty"`
	// RemainingSeconds is null when the slot is not on cooldown.
	RemainingSeconds *int `json:"remainingSeconds"`
}

type LoadoutResponse struct {
	Slots []Slot `json:"slots"`
}

type ResyncResponse struct {
	Started bool `json:"started"`
}

type Stratagem struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Deployment      string   `json:"deployment"`
	Code            []string `json:"code"`
	DeploySeconds   int      `json:"deploySeconds"`
	CooldownSeconds int      `json:"cooldownSeconds"`
}

type StratagemsResponse struct {
	Stratagems []Stratagem `json:"stratagems"`
}

// Event is one line of the events stream.
type Event struct {
	Event  string `json:"event"`
	Reason string `json:"reason,omitempty"`
	At     string `json:"at,omitempty"`
}
