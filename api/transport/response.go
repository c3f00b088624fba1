package transport

import (
	"encoding/json"
	"time"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// PaginationMeta accompanies collection responses.
type PaginationMeta struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalItems int    `json:"total_items"`
	TotalPages int    `json:"total_pages"`
	Language   string `json:"lang,omitempty"`
}

// ViolationsMeta accompanies INVALID errors.
type ViolationsMeta struct {
	Violations []string `json:"violations"`
}

// HealthReport is the payload of the health endpoint.
type HealthReport struct {
	Timestamp  time.Time    `json:"timestamp"`
	Mode       string       `json:"mode"`
	Languages  []string     `json:"languages"`
	PostgreSQL bool         `json:"postgresql"`
	Redis      bool         `json:"redis"`
	Buffer     BufferReport `json:"buffer"`
	LastCheck  time.Time    `json:"last_check"`
}

type BufferReport struct {
	Online         bool `json:"online"`
	BufferedWrites int  `json:"buffered_writes"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
