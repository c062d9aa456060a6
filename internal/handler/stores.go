package handler

import (
	"context"

	"github.com/iliyamo/program-selection/internal/model"
)

// ProgramStore is implemented by repository.ProgramRepo.
type ProgramStore interface {
	ListAll(ctx context.Context) ([]model.Program, error)
	GetByID(ctx context.Context, id string) (*model.Program, error)
}

// SelectionStore is implemented by repository.SelectionRepo.
type SelectionStore interface {
	Create(ctx context.Context, s *model.Selection) error
	ListRecent(ctx context.Context) ([]model.Selection, error)
}

// SelectionPublisher is implemented by service.SelectionPublisher.
type SelectionPublisher interface {
	PublishSelection(ctx context.Context, s model.Selection) error
}
