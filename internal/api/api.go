// Package api exposes the engine over HTTP.
package api

import (
	"context"

	"github.com/jmgilman/nodeenv"
	"github.com/jmgilman/nodeenv/cache"
	"github.com/jmgilman/nodeenv/manager"
	"github.com/jmgilman/nodeenv/project"
	"github.com/jmgilman/nodeenv/version"
)

// Engine is the subset of *nodeenv.Engine the API serves.
type Engine interface {
	DetectAllManagers(ctx context.Context) []manager.Descriptor
	GetPreferredManager(ctx context.Context) (manager.Descriptor, bool)
	IsManagerAvailable(ctx context.Context, t manager.Type) bool
	CurrentVersion(ctx context.Context) string
	GetProjectVersionConfig(ctx context.Context, root string) (project.Config, bool)
	HasConfigFiles(ctx context.Context, root string) bool
	Invalidate(root string)
	MatchVersion(ctx context.Context, current, required string) version.Result
	Plan(ctx context.Context, root string) nodeenv.Plan
	Clear()
	ClearNamespace(name string) error
	Stats() cache.Stats
	Cleanup(ctx context.Context) int
}

var _ Engine = (*nodeenv.Engine)(nil)
