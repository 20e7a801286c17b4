package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error)
	// Search returns available items whose name or description contains text, ignoring case.
	Search(ctx context.Context, text string) ([]*Item, error)
	Update(ctx context.Context, it *Item) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var itemColumns = []string{"id", "owner_id", "name", "description", "available", "created_at"}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	const query = `
		INSERT INTO public.items (owner_id, name, description, available)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, it.OwnerID, it.Name, it.Description, it.Available).
		Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := r.psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error) {
	builder := r.psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id ASC")
	return r.list(ctx, builder)
}

func (r *pgxRepository) Search(ctx context.Context, text string) ([]*Item, error) {
	pattern := "%" + text + "%"
	builder := r.psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("id ASC")
	return r.list(ctx, builder)
}

func (r *pgxRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*Item, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var result []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	const query = `
		UPDATE public.items
		SET name = $1, description = $2, available = $3
		WHERE id = $4
	`
	ct, err := r.pool.Exec(ctx, query, it.Name, it.Description, it.Available, it.ID)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
