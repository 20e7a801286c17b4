package comment

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	// ListByItem returns the comments of an item, newest first.
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, c *Comment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.comments").
		Columns("item_id", "author_id", "text", "created_at").
		Values(c.ItemID, c.AuthorID, c.Text, c.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created_at").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var result []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}
