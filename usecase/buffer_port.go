package usecase

import (
	"context"

	"github.com/fastygo/degreeprogram/domain"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferDegreeProgram(ctx context.Context, snapshot domain.Snapshot, events []domain.EventRecord) error
	// HasPendingDegreeProgram reports buffered saves of id that were not
	// replayed yet.
	HasPendingDegreeProgram(ctx context.Context, id domain.DegreeProgramID) (bool, error)
}
