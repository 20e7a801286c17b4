package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Save stores p, replacing the previous photo of the same item.
	Save(ctx context.Context, p *Photo) error
	GetByItemID(ctx context.Context, itemID int64) (*Photo, error)
	Delete(ctx context.Context, itemID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, p *Photo) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.photos").
		Columns("item_id", "filename", "storage_key", "thumbnail_key", "content_type", "size", "uploaded_at").
		Values(p.ItemID, p.Filename, p.StorageKey, p.ThumbnailKey, p.ContentType, p.Size, p.UploadedAt).
		Suffix(`ON CONFLICT (item_id) DO UPDATE SET
			filename = EXCLUDED.filename,
			storage_key = EXCLUDED.storage_key,
			thumbnail_key = EXCLUDED.thumbnail_key,
			content_type = EXCLUDED.content_type,
			size = EXCLUDED.size,
			uploaded_at = EXCLUDED.uploaded_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save photo record: %w", err)
	}
	return nil
}

func (r *repository) GetByItemID(ctx context.Context, itemID int64) (*Photo, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("item_id", "filename", "storage_key", "thumbnail_key", "content_type", "size", "uploaded_at").
		From("public.photos").
		Where(squirrel.Eq{"item_id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	p := &Photo{}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&p.ItemID,
		&p.Filename,
		&p.StorageKey,
		&p.ThumbnailKey,
		&p.ContentType,
		&p.Size,
		&p.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, itemID int64) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.photos").
		Where(squirrel.Eq{"item_id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
