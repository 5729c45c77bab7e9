package services

import (
	"context"
	"fmt"

	"github.com/parley-labs/edumap-cli/internal/core/ports/driving"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

// Pipeline runs the stages in order: parse, flatten, embed, cluster,
// attach, aggregate. Stages with a nil runner are skipped, so a caller can
// resume from an existing artifact (e.g. run everything after an external
// parse).
type Pipeline struct {
	Parse     driving.ParseService
	Flatten   driving.FlattenService
	Embed     driving.EmbedService
	Cluster   driving.ClusterService
	Attach    driving.AttachService
	Aggregate driving.AggregateService
}

// Run executes the configured stages left to right. The first failure
// aborts the run; completed stages keep their artifacts.
func (p *Pipeline) Run(ctx context.Context) error {
	stages := []struct {
		name   string
		runner driving.StageRunner
	}{
		{"parse", p.Parse},
		{"flatten", p.Flatten},
		{"embed", p.Embed},
		{"cluster", p.Cluster},
		{"attach", p.Attach},
		{"aggregate", p.Aggregate},
	}

	for _, stage := range stages {
		if stage.runner == nil {
			logger.Debug("skipping stage %s (not configured)", stage.name)
			continue
		}
		if err := stage.runner.Run(ctx); err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}
	return nil
}
