package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/degreeprogram/api/handler"
)

type Handlers struct {
	DegreePrograms *apiHandler.DegreeProgramHandler
	Cache          *apiHandler.CacheHandler
	Health         *apiHandler.HealthHandler
}

// New registers the catalog routes. Reads are public; every write goes
// through authMiddleware.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/degree-programs", handlers.DegreePrograms.List)
	r.GET("/api/v1/degree-programs/{id}", handlers.DegreePrograms.Get)
	r.GET("/api/v1/degree-programs/{id}/raw", handlers.DegreePrograms.GetRaw)
	r.PUT("/api/v1/degree-programs/{id}/draft", authMiddleware(handlers.DegreePrograms.UpdateDraft))
	r.POST("/api/v1/degree-programs/{id}/publish", authMiddleware(handlers.DegreePrograms.Publish))

	r.PUT("/api/v1/shared-links/{key}", authMiddleware(handlers.DegreePrograms.UpdateSharedLink))

	r.POST("/api/v1/cache/warm", authMiddleware(handlers.Cache.Warm))
	r.DELETE("/api/v1/cache", authMiddleware(handlers.Cache.Invalidate))

	return r
}
