package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"adforge/internal/domain"
)

// WorkspaceRepositoryPG implements domain.WorkspaceRepository backed by
// PostgreSQL. Each workspace is one row; content updates rewrite the
// creatives and campaigns columns wholesale (last write wins).
type WorkspaceRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepositoryPG.
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepositoryPG {
	return &WorkspaceRepositoryPG{pool: pool}
}

const workspaceColumns = `owner_id, slug, source_url, branding, personas, angles, headlines, creatives, campaigns, created_at, updated_at`

// Create inserts a new workspace row.
func (r *WorkspaceRepositoryPG) Create(ctx context.Context, ws *domain.Workspace) error {
	query := `
INSERT INTO workspaces (owner_id, slug, source_url, branding, personas, angles, headlines, creatives, campaigns)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.pool.Exec(ctx, query,
		ws.OwnerID,
		ws.Slug,
		ws.SourceURL,
		mustJSON(ws.Branding),
		mustJSON(ws.Personas),
		mustJSON(ws.Angles),
		mustJSON(ws.Headlines),
		mustJSON(ws.Creatives),
		mustJSON(ws.Campaigns),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateWorkspace
		}
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

// GetByOwnerAndSlug fetches one workspace row.
func (r *WorkspaceRepositoryPG) GetByOwnerAndSlug(ctx context.Context, ownerID, slug string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE owner_id = $1 AND slug = $2`,
		ownerID, slug)
	return scanWorkspace(row)
}

// ListByOwner returns all workspaces belonging to the owner.
func (r *WorkspaceRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Workspace, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE owner_id = $1 ORDER BY created_at`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var out []domain.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ws)
	}
	return out, rows.Err()
}

// UpdateContent rewrites the creative list and its derived campaign view as a
// single row update.
func (r *WorkspaceRepositoryPG) UpdateContent(ctx context.Context, ownerID, slug string, creatives []domain.Creative, campaigns []domain.Campaign) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE workspaces
SET creatives = $3,
    campaigns = $4,
    updated_at = NOW()
WHERE owner_id = $1 AND slug = $2;
`, ownerID, slug, mustJSON(creatives), mustJSON(campaigns))
	if err != nil {
		return fmt.Errorf("update workspace content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the workspace row and, with it, every creative it owns.
func (r *WorkspaceRepositoryPG) Delete(ctx context.Context, ownerID, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workspaces WHERE owner_id = $1 AND slug = $2`, ownerID, slug)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var ws domain.Workspace
	var branding, personas, angles, headlines, creatives, campaigns []byte
	if err := row.Scan(&ws.OwnerID, &ws.Slug, &ws.SourceURL, &branding, &personas, &angles, &headlines, &creatives, &campaigns, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := decodeJSON(branding, &ws.Branding); err != nil {
		return nil, err
	}
	if err := decodeJSON(personas, &ws.Personas); err != nil {
		return nil, err
	}
	if err := decodeJSON(angles, &ws.Angles); err != nil {
		return nil, err
	}
	if err := decodeJSON(headlines, &ws.Headlines); err != nil {
		return nil, err
	}
	if err := decodeJSON(creatives, &ws.Creatives); err != nil {
		return nil, err
	}
	if err := decodeJSON(campaigns, &ws.Campaigns); err != nil {
		return nil, err
	}
	return &ws, nil
}

func decodeJSON(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode workspace column: %w", err)
	}
	return nil
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}

var _ domain.WorkspaceRepository = (*WorkspaceRepositoryPG)(nil)
