package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/repository"
	"github.com/fastygo/degreeprogram/view"
)

type fakeService struct {
	translated   *view.Translated
	err          error
	gotLang      string
	gotFaculty   []string
	gotCriteria  repository.CollectionCriteria
	savedDraft   domain.DegreeProgramData
	publishCalls int
}

func (f *fakeService) UpdateDraft(_ context.Context, data domain.DegreeProgramData) (domain.DegreeProgramData, error) {
	f.savedDraft = data
	return data, f.err
}

func (f *fakeService) Publish(_ context.Context, data domain.DegreeProgramData) (domain.DegreeProgramData, error) {
	f.publishCalls++
	return data, f.err
}

func (f *fakeService) GetRaw(_ context.Context, id domain.DegreeProgramID) (view.Raw, error) {
	return view.RawFromData(domain.DegreeProgramData{ID: id.Int()}), f.err
}

func (f *fakeService) GetTranslated(_ context.Context, _ domain.DegreeProgramID, lang string, faculty []string) (*view.Translated, error) {
	f.gotLang = lang
	f.gotFaculty = faculty
	return f.translated, f.err
}

func (f *fakeService) ListRaw(_ context.Context, criteria repository.CollectionCriteria) (repository.PaginatedCollection[view.Raw], error) {
	f.gotCriteria = criteria
	return repository.NewPaginatedCollection([]view.Raw{}, criteria, 0), f.err
}

func (f *fakeService) ListTranslated(_ context.Context, criteria repository.CollectionCriteria, lang string) (repository.PaginatedCollection[*view.Translated], error) {
	f.gotCriteria = criteria
	f.gotLang = lang
	return repository.NewPaginatedCollection([]*view.Translated{f.translated}, criteria, 21), f.err
}

func (f *fakeService) UpdateSharedLink(_ context.Context, key string, link domain.BilingualLink) (domain.BilingualLink, error) {
	link.ID = repository.SharedLinkID(key)
	return link, f.err
}

func newRequest(method, uri string, userValues map[string]string, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	for k, v := range userValues {
		ctx.SetUserValue(k, v)
	}
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return &ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(ctx.Response.Body(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, ctx.Response.Body())
	}
	return envelope
}

func TestGetNegotiatesLanguage(t *testing.T) {
	svc := &fakeService{translated: &view.Translated{ID: 25, Lang: "en"}}
	h := NewDegreeProgramHandler(svc, []string{"de", "en"}, nil, nil)

	ctx := newRequest(http.MethodGet, "/api/v1/degree-programs/25?faculty=phil,nat&faculty=med", map[string]string{"id": "25"}, "")
	ctx.Request.Header.Set("Accept-Language", "en-GB,en;q=0.9,de;q=0.5")
	h.Get(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	if svc.gotLang != "en" {
		t.Fatalf("lang = %q, want en", svc.gotLang)
	}
	if !slices.Equal(svc.gotFaculty, []string{"phil", "nat", "med"}) {
		t.Fatalf("faculty = %v", svc.gotFaculty)
	}
	if got := string(ctx.Response.Header.Peek("Content-Language")); got != "en" {
		t.Fatalf("Content-Language = %q", got)
	}

	ctx = newRequest(http.MethodGet, "/api/v1/degree-programs/25?lang=de", map[string]string{"id": "25"}, "")
	ctx.Request.Header.Set("Accept-Language", "en")
	h.Get(ctx)
	if svc.gotLang != "de" {
		t.Fatalf("explicit lang must win, got %q", svc.gotLang)
	}

	ctx = newRequest(http.MethodGet, "/api/v1/degree-programs/25?lang=fr", map[string]string{"id": "25"}, "")
	h.Get(ctx)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("unsupported lang status = %d", ctx.Response.StatusCode())
	}
}

func TestGetMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{name: "not found", id: "25", err: domain.ErrDegreeProgramNotFound, status: http.StatusNotFound},
		{name: "missing translation", id: "25", err: domain.ErrMissingTranslation, status: http.StatusNotFound},
		{name: "bad id", id: "abc", status: http.StatusBadRequest},
		{name: "negative id", id: "-3", status: http.StatusBadRequest},
		{name: "storage failure", id: "25", err: errors.New("connection reset"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDegreeProgramHandler(&fakeService{err: tt.err}, nil, nil, nil)
			ctx := newRequest(http.MethodGet, "/api/v1/degree-programs/"+tt.id, map[string]string{"id": tt.id}, "")
			h.Get(ctx)
			if ctx.Response.StatusCode() != tt.status {
				t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), tt.status)
			}
			if tt.status == http.StatusInternalServerError {
				var message string
				_ = json.Unmarshal(decodeEnvelope(t, ctx)["error"], &message)
				if message != "internal error" {
					t.Fatalf("internal error text leaked: %q", message)
				}
			}
		})
	}
}

func TestUpdateDraft(t *testing.T) {
	svc := &fakeService{}
	h := NewDegreeProgramHandler(svc, nil, nil, nil)

	ctx := newRequest(http.MethodPut, "/api/v1/degree-programs/25/draft", map[string]string{"id": "25"},
		`{"title":{"id":"post_meta:title:25","de":"Physik","en":"Physics"},"combinations":[26]}`)
	h.UpdateDraft(ctx)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	if svc.savedDraft.ID != 25 || svc.savedDraft.Title.EN != "Physics" {
		t.Fatalf("unexpected payload %+v", svc.savedDraft)
	}

	ctx = newRequest(http.MethodPut, "/api/v1/degree-programs/25/draft", map[string]string{"id": "25"}, `{"id":26}`)
	h.UpdateDraft(ctx)
	if ctx.Response.StatusCode() != http.StatusConflict {
		t.Fatalf("id mismatch status = %d", ctx.Response.StatusCode())
	}

	ctx = newRequest(http.MethodPut, "/api/v1/degree-programs/25/draft", map[string]string{"id": "25"}, `{"titel":{}}`)
	h.UpdateDraft(ctx)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", ctx.Response.StatusCode())
	}
}

func TestPublishReportsViolations(t *testing.T) {
	svc := &fakeService{err: domain.NewInvalidInputError("Invalid publish degree program data.", "title.en: required")}
	h := NewDegreeProgramHandler(svc, nil, nil, nil)

	ctx := newRequest(http.MethodPost, "/api/v1/degree-programs/25/publish", map[string]string{"id": "25"}, `{}`)
	h.Publish(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	var meta struct {
		Violations []string `json:"violations"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, ctx)["meta"], &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if !slices.Equal(meta.Violations, []string{"title.en: required"}) {
		t.Fatalf("violations = %v", meta.Violations)
	}
}

func TestListParsesCriteria(t *testing.T) {
	svc := &fakeService{translated: &view.Translated{ID: 25, Lang: "de"}}
	h := NewDegreeProgramHandler(svc, []string{"de", "en"}, nil, nil)

	ctx := newRequest(http.MethodGet, "/api/v1/degree-programs?page=3&per_page=5&include=25,26&faculty=phil", nil, "")
	h.List(ctx)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	c := svc.gotCriteria
	if c.Page() != 3 || c.PerPage() != 5 || !slices.Equal(c.Include(), []int{25, 26}) || !slices.Equal(c.FacultySlugs(), []string{"phil"}) {
		t.Fatalf("unexpected criteria page=%d per_page=%d include=%v faculty=%v", c.Page(), c.PerPage(), c.Include(), c.FacultySlugs())
	}

	var meta struct {
		TotalItems int    `json:"total_items"`
		TotalPages int    `json:"total_pages"`
		Lang       string `json:"lang"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, ctx)["meta"], &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.TotalItems != 21 || meta.TotalPages != 5 || meta.Lang != "de" {
		t.Fatalf("unexpected meta %+v", meta)
	}

	for _, query := range []string{"page=0", "per_page=0", "include=x", "include=-1"} {
		ctx = newRequest(http.MethodGet, "/api/v1/degree-programs?"+query, nil, "")
		h.List(ctx)
		if ctx.Response.StatusCode() != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", query, ctx.Response.StatusCode())
		}
	}
}

func TestUpdateSharedLinkHandler(t *testing.T) {
	h := NewDegreeProgramHandler(&fakeService{}, nil, nil, nil)
	ctx := newRequest(http.MethodPut, "/api/v1/shared-links/semester_fee", map[string]string{"key": "semester_fee"},
		`{"name":{"de":"Semesterbeitrag","en":"Semester fee"},"link_url":{"de":"https://www.fau.de/beitrag","en":"https://www.fau.eu/fee"}}`)
	h.UpdateSharedLink(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var link domain.BilingualLink
	if err := json.Unmarshal(decodeEnvelope(t, ctx)["data"], &link); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if link.ID != "option:fau_semester_fee" || link.Name.EN != "Semester fee" {
		t.Fatalf("unexpected link %+v", link)
	}
}
