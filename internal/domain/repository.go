package domain

import "context"

// WorkspaceRepository defines persistence for workspaces. Implementations
// treat a workspace as a single logical row: reads and writes are atomic per
// row, with no transaction spanning multiple workspaces. Concurrent content
// writes are last-write-wins.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *Workspace) error
	GetByOwnerAndSlug(ctx context.Context, ownerID, slug string) (*Workspace, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Workspace, error)
	UpdateContent(ctx context.Context, ownerID, slug string, creatives []Creative, campaigns []Campaign) error
	Delete(ctx context.Context, ownerID, slug string) error
}
