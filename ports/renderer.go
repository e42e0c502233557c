package ports

import (
	"context"

	"switchback/domain/run"
	"switchback/domain/stats"
)

// ReportRenderer presents finished reports. Renderers never see partial results.
type ReportRenderer interface {
	// Name identifies the renderer in logs and errors
	Name() string
	// Render writes its artifacts and returns what it wrote; console-style
	// renderers return no artifacts
	Render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error)
}
