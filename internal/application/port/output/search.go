package output

import (
	"context"

	"trip-planner/internal/domain/entity"
)

type SearchPort interface {
	Search(ctx context.Context, query string) ([]entity.SearchResult, error)
}

// SearchFactory builds a search capability bound to one API key.
type SearchFactory func(apiKey string) SearchPort
