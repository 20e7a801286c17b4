package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts b in its current status and fills ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// List returns bookings matching filter ordered by start descending.
	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// UpdateStatusIfWaiting moves a WAITING booking to status in one conditional write.
	// It returns ErrAlreadyProcessed when the booking exists but is no longer WAITING.
	UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) error

	// HasFinishedApproved reports whether bookerID holds an APPROVED booking of itemID with end strictly before now.
	HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	// HasApprovedOverlap reports whether an APPROVED booking of itemID intersects [start, end).
	HasApprovedOverlap(ctx context.Context, itemID int64, start, end time.Time) (bool, error)
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

func (r *pgxRepository) selectBookings() squirrel.SelectBuilder {
	return r.psql.Select(
		"b.id", "b.start_time", "b.end_time", "b.status",
		"i.id", "i.name", "i.description", "i.available", "i.owner_id",
		"u.id", "u.name", "u.email",
		"b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.Status,
		&b.ItemID, &b.ItemName, &b.ItemDescription, &b.ItemAvailable, &b.ItemOwnerID,
		&b.BookerID, &b.BookerName, &b.BookerEmail,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := r.psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	query := r.selectBookings()

	if filter.BookerID != 0 {
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	}
	if filter.OwnerID != 0 {
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}
	if filter.ItemID != 0 {
		query = query.Where(squirrel.Eq{"b.item_id": filter.ItemID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	query = applyState(query, filter)

	query = query.OrderBy("b.start_time DESC", "b.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// applyState translates Filter.Matches state predicates into SQL.
func applyState(query squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	switch filter.State {
	case StateCurrent:
		return query.Where(squirrel.Lt{"b.start_time": filter.Now}).Where(squirrel.Gt{"b.end_time": filter.Now})
	case StatePast:
		return query.Where(squirrel.LtOrEq{"b.end_time": filter.Now})
	case StateFuture:
		return query.Where(squirrel.Gt{"b.start_time": filter.Now})
	case StateWaiting:
		return query.Where(squirrel.Eq{"b.status": StatusWaiting})
	case StateRejected:
		return query.Where(squirrel.Eq{"b.status": StatusRejected})
	default:
		return query
	}
}

func (r *pgxRepository) UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) error {
	query, args, err := r.psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": StatusWaiting}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Nothing changed: either the booking is gone or someone else already resolved it.
	exists, err := r.exists(ctx, r.psql.Select("1").From("public.bookings").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrAlreadyProcessed
}

func (r *pgxRepository) HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	subQuery := r.psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID, "booker_id": bookerID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_time": now})
	return r.exists(ctx, subQuery)
}

func (r *pgxRepository) HasApprovedOverlap(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	// Overlap: (NewStart < ExistingEnd) AND (NewEnd > ExistingStart)
	subQuery := r.psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID, "status": StatusApproved}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})
	return r.exists(ctx, subQuery)
}

func (r *pgxRepository) exists(ctx context.Context, subQuery squirrel.SelectBuilder) (bool, error) {
	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists query failed: %w", err)
	}
	return exists, nil
}
