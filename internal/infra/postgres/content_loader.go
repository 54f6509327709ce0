package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"glasscode-quiz-service/internal/domain"
)

// ContentLoader loads module content bundles (module, lessons, quiz pool)
// stored as JSONB per slug.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadModuleContent(ctx context.Context, slug string) (domain.ModuleContent, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM modules WHERE slug=$1`, slug).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ModuleContent{}, domain.ErrModuleNotFound
	}
	if err != nil {
		return domain.ModuleContent{}, fmt.Errorf("load module content: %w", err)
	}
	var content domain.ModuleContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return domain.ModuleContent{}, fmt.Errorf("unmarshal module content: %w", err)
	}
	if content.Module.Slug == "" {
		content.Module.Slug = slug
	}
	return content, nil
}
