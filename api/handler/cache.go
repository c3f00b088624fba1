package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/api/transport"
	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/pkg/httpcontext"
	appLogger "github.com/fastygo/degreeprogram/pkg/logger"
)

// CacheMaintainer rebuilds and drops cached translated views.
type CacheMaintainer interface {
	WarmFully(ctx context.Context) error
	RefreshPartially(ctx context.Context, ids []int) error
	InvalidateFully(ctx context.Context) error
}

type CacheHandler struct {
	baseHandler
	cache CacheMaintainer
}

// NewCacheHandler uses its own adapter because warm-ups outlive the default request timeout.
func NewCacheHandler(cache CacheMaintainer, adapter *httpcontext.Adapter, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		baseHandler: newBaseHandler(adapter, logger),
		cache:       cache,
	}
}

// @Summary Warm the translated view cache
// @Tags cache
// @Router /api/v1/cache/warm [post]
func (h *CacheHandler) Warm(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.CacheWarmRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := decodeStrict(body, &req); err != nil {
			h.respondError(stdCtx, ctx, domain.NewInvalidInputError("Invalid request body.", err.Error()))
			return
		}
	}
	for _, id := range req.IDs {
		if _, err := domain.NewDegreeProgramID(id); err != nil {
			h.respondError(stdCtx, ctx, err)
			return
		}
	}

	var err error
	if len(req.IDs) == 0 {
		err = h.cache.WarmFully(stdCtx)
	} else {
		err = h.cache.RefreshPartially(stdCtx, req.IDs)
	}
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	appLogger.WithRequestID(stdCtx, h.logger).Info("cache warm requested",
		zap.Ints("ids", req.IDs),
		zap.String("editor", httpcontext.Subject(stdCtx)))
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"fully": len(req.IDs) == 0,
		"ids":   req.IDs,
	})
}

// @Summary Drop every cached translated view
// @Tags cache
// @Router /api/v1/cache [delete]
func (h *CacheHandler) Invalidate(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.cache.InvalidateFully(stdCtx); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"invalidated": true})
}
