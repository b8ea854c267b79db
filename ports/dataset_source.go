package ports

import (
	"context"

	"popdash/domain/population"
)

// DatasetSource loads the population table from its backing file
type DatasetSource interface {
	// Load reads and parses the whole table. Any failure is reported as a
	// DATASET_UNAVAILABLE error.
	Load(ctx context.Context) (*population.Dataset, error)

	// Describe returns a human readable name of the source for logs
	Describe() string
}

// DatasetProvider returns the session dataset, loading it when needed
type DatasetProvider interface {
	Get(ctx context.Context) (*population.Dataset, error)
	Invalidate()
}
