package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/api/transport"
	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/pkg/httpcontext"
	appLogger "github.com/fastygo/degreeprogram/pkg/logger"
	"github.com/fastygo/degreeprogram/repository"
	"github.com/fastygo/degreeprogram/view"
)

// DegreeProgramService is the use case surface the handler drives.
type DegreeProgramService interface {
	UpdateDraft(ctx context.Context, data domain.DegreeProgramData) (domain.DegreeProgramData, error)
	Publish(ctx context.Context, data domain.DegreeProgramData) (domain.DegreeProgramData, error)
	GetRaw(ctx context.Context, id domain.DegreeProgramID) (view.Raw, error)
	GetTranslated(ctx context.Context, id domain.DegreeProgramID, languageCode string, facultySlugs []string) (*view.Translated, error)
	ListRaw(ctx context.Context, criteria repository.CollectionCriteria) (repository.PaginatedCollection[view.Raw], error)
	ListTranslated(ctx context.Context, criteria repository.CollectionCriteria, languageCode string) (repository.PaginatedCollection[*view.Translated], error)
	UpdateSharedLink(ctx context.Context, key string, link domain.BilingualLink) (domain.BilingualLink, error)
}

type DegreeProgramHandler struct {
	baseHandler
	uc        DegreeProgramService
	languages languageNegotiator
}

func NewDegreeProgramHandler(uc DegreeProgramService, languages []string, adapter *httpcontext.Adapter, logger *zap.Logger) *DegreeProgramHandler {
	return &DegreeProgramHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		languages:   newLanguageNegotiator(languages),
	}
}

// @Summary List degree programs
// @Tags degree-programs
// @Router /api/v1/degree-programs [get]
func (h *DegreeProgramHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	criteria, err := parseCriteria(ctx.QueryArgs())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	if string(ctx.QueryArgs().Peek("view")) == "raw" {
		collection, err := h.uc.ListRaw(stdCtx, criteria)
		if err != nil {
			h.respondError(stdCtx, ctx, err)
			return
		}
		h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(collection.Items, paginationMeta(collection.Page, criteria, collection.TotalItems, collection.TotalPages, "")))
		return
	}

	lang, err := h.languages.negotiate(ctx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	collection, err := h.uc.ListTranslated(stdCtx, criteria, lang)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.Response.Header.Set("Content-Language", lang)
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(collection.Items, paginationMeta(collection.Page, criteria, collection.TotalItems, collection.TotalPages, lang)))
}

// @Summary Get translated degree program
// @Tags degree-programs
// @Router /api/v1/degree-programs/{id} [get]
func (h *DegreeProgramHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := pathID(ctx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	lang, err := h.languages.negotiate(ctx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	translated, err := h.uc.GetTranslated(stdCtx, id, lang, facultySlugs(ctx.QueryArgs()))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.Response.Header.Set("Content-Language", lang)
	h.respondSuccess(ctx, http.StatusOK, translated)
}

// @Summary Get raw degree program
// @Tags degree-programs
// @Router /api/v1/degree-programs/{id}/raw [get]
func (h *DegreeProgramHandler) GetRaw(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := pathID(ctx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	raw, err := h.uc.GetRaw(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, raw)
}

// @Summary Save degree program draft
// @Tags degree-programs
// @Router /api/v1/degree-programs/{id}/draft [put]
func (h *DegreeProgramHandler) UpdateDraft(ctx *fasthttp.RequestCtx) {
	h.update(ctx, "draft", h.uc.UpdateDraft)
}

// @Summary Publish degree program
// @Tags degree-programs
// @Router /api/v1/degree-programs/{id}/publish [post]
func (h *DegreeProgramHandler) Publish(ctx *fasthttp.RequestCtx) {
	h.update(ctx, "publish", h.uc.Publish)
}

func (h *DegreeProgramHandler) update(ctx *fasthttp.RequestCtx, action string, apply func(context.Context, domain.DegreeProgramData) (domain.DegreeProgramData, error)) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := pathID(ctx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	var req transport.DegreeProgramRequest
	if err := decodeStrict(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, domain.NewInvalidInputError("Invalid request body.", err.Error()))
		return
	}
	if req.ID == 0 {
		req.ID = id.Int()
	}
	if req.ID != id.Int() {
		h.respondError(stdCtx, ctx, domain.ErrIdentityMismatch)
		return
	}

	updated, err := apply(stdCtx, req)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	appLogger.WithRequestID(stdCtx, h.logger).Info("degree program saved",
		zap.String("action", action),
		zap.Int("id", id.Int()),
		zap.String("editor", httpcontext.Subject(stdCtx)))
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Replace a shared organizational link
// @Tags shared-links
// @Router /api/v1/shared-links/{key} [put]
func (h *DegreeProgramHandler) UpdateSharedLink(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	key, _ := ctx.UserValue("key").(string)
	var req transport.SharedLinkRequest
	if err := decodeStrict(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, domain.NewInvalidInputError("Invalid request body.", err.Error()))
		return
	}

	link, err := h.uc.UpdateSharedLink(stdCtx, key, req.Link())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, link)
}

func pathID(ctx *fasthttp.RequestCtx) (domain.DegreeProgramID, error) {
	raw, _ := ctx.UserValue("id").(string)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewInvalidInputError("Invalid degree program id.", "id: "+raw)
	}
	return domain.NewDegreeProgramID(value)
}

func parseCriteria(args *fasthttp.Args) (repository.CollectionCriteria, error) {
	criteria := repository.NewCollectionCriteria()
	var err error

	if raw := string(args.Peek("page")); raw != "" {
		page, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return criteria, domain.NewInvalidInputError("Invalid page.", "page: "+raw)
		}
		if criteria, err = criteria.WithPage(page); err != nil {
			return criteria, err
		}
	}
	if raw := string(args.Peek("per_page")); raw != "" {
		perPage, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return criteria, domain.NewInvalidInputError("Invalid per_page.", "per_page: "+raw)
		}
		if criteria, err = criteria.WithPerPage(perPage); err != nil {
			return criteria, err
		}
	}
	if raw := string(args.Peek("include")); raw != "" {
		ids, convErr := splitInts(raw)
		if convErr != nil {
			return criteria, domain.NewInvalidInputError("Invalid include list.", "include: "+raw)
		}
		if criteria, err = criteria.WithInclude(ids); err != nil {
			return criteria, err
		}
	}
	return criteria.WithFacultySlugs(facultySlugs(args)), nil
}

// facultySlugs accepts both ?faculty=a&faculty=b and ?faculty=a,b.
func facultySlugs(args *fasthttp.Args) []string {
	var slugs []string
	for _, value := range args.PeekMulti("faculty") {
		for _, slug := range strings.Split(string(value), ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	return slugs
}

func splitInts(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func paginationMeta(page int, criteria repository.CollectionCriteria, totalItems, totalPages int, lang string) transport.PaginationMeta {
	return transport.PaginationMeta{
		Page:       page,
		PerPage:    criteria.PerPage(),
		TotalItems: totalItems,
		TotalPages: totalPages,
		Language:   lang,
	}
}

func decodeStrict(body []byte, target interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
