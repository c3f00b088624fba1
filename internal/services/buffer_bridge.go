package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/internal/infrastructure/buffer"
	"github.com/fastygo/degreeprogram/usecase"
)

// degreeProgramWrite is the buffered form of a degree program save.
type degreeProgramWrite struct {
	Snapshot domain.Snapshot      `json:"snapshot"`
	Events   []domain.EventRecord `json:"events"`
}

// BufferBridge adapts the buffer processor to the use case port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferDegreeProgram(ctx context.Context, snapshot domain.Snapshot, events []domain.EventRecord) error {
	if b.processor == nil || snapshot.ID < 0 {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(degreeProgramWrite{Snapshot: snapshot, Events: events})
	if err != nil {
		return err
	}
	item := buffer.Item{
		Entity:    buffer.EntityDegreeProgram,
		Operation: buffer.OperationSave,
		EntityID:  snapshot.ID,
		Data:      payload,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) HasPendingDegreeProgram(_ context.Context, id domain.DegreeProgramID) (bool, error) {
	if b.processor == nil {
		return false, nil
	}
	return b.processor.Pending(buffer.EntityDegreeProgram, id.Int())
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
