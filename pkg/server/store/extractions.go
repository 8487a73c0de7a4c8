package store

import (
	"context"

	"github.com/yachtexcel/yachtexcel/pkg/model"
)

// ExtractionFilter narrows an extraction listing.
type ExtractionFilter struct {
	CreatedBy string
	YachtID   string
}

// ExtractionsStore abstracts document extraction records
type ExtractionsStore interface {
	CreateExtraction(ctx context.Context, d *model.DocumentExtraction) error
	GetExtraction(ctx context.Context, id string) (*model.DocumentExtraction, error)
	// ListExtractions returns newest first.
	ListExtractions(ctx context.Context, filter ExtractionFilter, page Page) (List[model.DocumentExtraction], error)
}
