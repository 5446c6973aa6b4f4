package repository

import (
	"context"
)

// AnalysisViewRepository defines the interface for the derived analysis
// views over the observation log. Views are full-recompute caches: always
// reconstructible from the log, refreshed wholesale, never maintained
// incrementally.
type AnalysisViewRepository interface {
	CreateViews(ctx context.Context) error
	ViewNames() []string
	RefreshView(ctx context.Context, name string) error
}
