package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/api/transport"
	"github.com/fastygo/degreeprogram/internal/infrastructure/monitor"
	"github.com/fastygo/degreeprogram/pkg/httpcontext"
)

// StatusReporter exposes the last dependency check.
type StatusReporter interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor   StatusReporter
	languages []string
}

func NewHealthHandler(mon StatusReporter, languages []string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		languages:   languages,
	}
}

// Check answers 200 while Postgres is reachable. A missing cache only slows
// reads down and is reported without failing the check.
//
// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	report := transport.HealthReport{
		Timestamp:  time.Now().UTC(),
		Mode:       status.Mode,
		Languages:  h.languages,
		PostgreSQL: status.PostgreSQL,
		Redis:      status.Redis,
		Buffer: transport.BufferReport{
			Online:         status.Buffer,
			BufferedWrites: status.BufferSize,
		},
		LastCheck: status.LastCheck,
	}

	if status.PostgreSQL {
		h.respondSuccess(ctx, http.StatusOK, report)
		return
	}
	if status.BufferSize > 0 {
		h.logger.Warn("health check while buffering", zap.Int("buffered_writes", status.BufferSize))
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "postgres unreachable, writes are buffered", report))
}
