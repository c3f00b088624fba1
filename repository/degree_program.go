package repository

import (
	"context"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/view"
)

// DegreeProgramRepository loads and stores the aggregate.
type DegreeProgramRepository interface {
	GetByID(ctx context.Context, id domain.DegreeProgramID) (*domain.DegreeProgram, error)
	// Save persists the aggregate, applies both relationship changesets on
	// both sides and appends the aggregate's pending events to the event log.
	// Events stay pending on the aggregate; the caller clears them.
	Save(ctx context.Context, program *domain.DegreeProgram) error
	// SaveSnapshot is Save for a snapshot taken earlier, used when replaying
	// buffered writes.
	SaveSnapshot(ctx context.Context, snapshot domain.Snapshot, events []domain.EventRecord) error
	// IDs lists every stored program id in ascending order.
	IDs(ctx context.Context) ([]int, error)
}

// DegreeProgramViewRepository reads single program views. Absent programs
// yield domain.ErrDegreeProgramNotFound.
type DegreeProgramViewRepository interface {
	FindRaw(ctx context.Context, id domain.DegreeProgramID) (view.Raw, error)
	// FindTranslated filters the raw view for facultySlugs, projects it to
	// languageCode and attaches the other languages as translations.
	FindTranslated(ctx context.Context, id domain.DegreeProgramID, languageCode string, facultySlugs []string) (*view.Translated, error)
}

// DegreeProgramCollectionRepository reads paginated lists of views.
type DegreeProgramCollectionRepository interface {
	FindRawCollection(ctx context.Context, criteria CollectionCriteria) (PaginatedCollection[view.Raw], error)
	FindTranslatedCollection(ctx context.Context, criteria CollectionCriteria, languageCode string) (PaginatedCollection[*view.Translated], error)
}

// SharedOptionRepository stores organizational links shared by every program.
type SharedOptionRepository interface {
	SharedLinks(ctx context.Context) (map[string]domain.BilingualLink, error)
	SaveSharedLink(ctx context.Context, key string, link domain.BilingualLink) error
}

// ViewCache caches translated views. Implementations must tolerate concurrent use.
type ViewCache interface {
	Invalidate(ctx context.Context, ids []int) error
	InvalidateAll(ctx context.Context) error
}
