package passrecorder

import (
	"context"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.PassRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordPass(_ context.Context, _ domain.PassRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
