package ports

import (
	"context"

	"switchback/domain/core"
	"switchback/domain/dataset"
)

// DatasetLoader turns a switchback export on disk into an observation table
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*LoadedDataset, error)
}

// LoadedDataset is a parsed table plus where it came from
type LoadedDataset struct {
	Table  *dataset.Table
	Source string
	Format string // "csv" or "xlsx"
	Hash   core.DatasetHash
}
