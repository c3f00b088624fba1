package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fastygo/degreeprogram/api/transport"
	"github.com/fastygo/degreeprogram/internal/infrastructure/monitor"
)

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		status monitor.Status
		want   int
	}{
		{name: "online without cache", status: monitor.Status{Mode: monitor.ModeOnline, PostgreSQL: true}, want: http.StatusOK},
		{name: "buffering", status: monitor.Status{Mode: monitor.ModeBuffering, Redis: true, Buffer: true, BufferSize: 2}, want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(staticStatus(tt.status), []string{"de", "en"}, nil, nil)
			ctx := newRequest(http.MethodGet, "/health", nil, "")
			h.Check(ctx)

			if ctx.Response.StatusCode() != tt.want {
				t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), tt.want)
			}
			envelope := decodeEnvelope(t, ctx)
			field := "data"
			if tt.want != http.StatusOK {
				field = "meta"
			}
			var report transport.HealthReport
			if err := json.Unmarshal(envelope[field], &report); err != nil {
				t.Fatalf("decode report: %v", err)
			}
			if report.Mode != tt.status.Mode || report.Buffer.BufferedWrites != tt.status.BufferSize || len(report.Languages) != 2 {
				t.Fatalf("unexpected report %+v", report)
			}
		})
	}
}
