package monitor

import "time"

const (
	ModeOnline    = "online"
	ModeBuffering = "buffering"
)

// Status is the last check result, reported by the health endpoint.
type Status struct {
	Mode       string    `json:"mode"`
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffered_writes"`
	LastCheck  time.Time `json:"last_check"`
}
