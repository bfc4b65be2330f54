package state

import (
	"sync/atomic"

	"csv-analyzer/internal/analysis"
)

// AppState holds the single live dataset. Datasets are immutable, so readers
// take whatever reference is current and replacement is one atomic swap.
type AppState struct {
	dataset atomic.Pointer[analysis.Dataset]
}

func NewAppState() *AppState {
	return &AppState{}
}

// Dataset returns the live dataset, or nil when nothing has been loaded.
func (s *AppState) Dataset() *analysis.Dataset {
	return s.dataset.Load()
}

// Replace makes ds the live dataset and returns the one it replaced.
func (s *AppState) Replace(ds *analysis.Dataset) *analysis.Dataset {
	return s.dataset.Swap(ds)
}

// Loaded reports whether a dataset is live.
func (s *AppState) Loaded() bool {
	return s.dataset.Load() != nil
}
