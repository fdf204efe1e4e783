// Package repo contains all database access logic for the itinerary planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so nested writes stay inside the test transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ItineraryRepo defines the persistence operations for saved itineraries.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type ItineraryRepo interface {
	// Create stores a generated itinerary and its scheduled activities in one
	// transaction and returns the persisted record.
	Create(ctx context.Context, it domain.GeneratedItinerary) (domain.Itinerary, error)

	// GetByID retrieves a saved itinerary with its scheduled activities in
	// allocation order. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)

	// ListPaged returns one page of itineraries, newest first, plus the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error)

	// Delete removes an itinerary by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, start_date, end_date, guest_count, total_price, created_at, updated_at`

// Create inserts the itinerary header, then batches one insert per scheduled activity.
func (r *pgItineraryRepo) Create(ctx context.Context, it domain.GeneratedItinerary) (domain.Itinerary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	const insertHeader = `
		INSERT INTO itineraries (start_date, end_date, guest_count, total_price)
		VALUES (@start_date, @end_date, @guest_count, @total_price)
		RETURNING ` + itineraryColumns

	saved, err := scanItinerary(tx.QueryRow(ctx, insertHeader, pgx.NamedArgs{
		"start_date":  it.StartDate,
		"end_date":    it.EndDate,
		"guest_count": it.GuestCount,
		"total_price": it.TotalPrice,
	}))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}

	const insertActivity = `
		INSERT INTO itinerary_activities (itinerary_id, position, activity_id,
			scheduled_date, scheduled_time, duration_hours, price, participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	batch := &pgx.Batch{}
	for i, s := range it.Activities {
		batch.Queue(insertActivity,
			saved.ID, i, s.ActivityID,
			pgtype.Date{Time: s.ScheduledDate.Time(), Valid: true},
			s.ScheduledTime, s.Duration, s.Price, s.Participants,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: activities: %w", mapPgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: commit: %w", err)
	}

	saved.Activities = append([]domain.ScheduledActivity(nil), it.Activities...)
	return saved, nil
}

// GetByID retrieves an itinerary by primary key together with its activities.
func (r *pgItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	q := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = @id`

	result, err := scanItinerary(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}

	byItinerary, err := r.loadActivities(ctx, []uuid.UUID{id})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	result.Activities = byItinerary[id]
	if result.Activities == nil {
		result.Activities = []domain.ScheduledActivity{}
	}
	return result, nil
}

// ListPaged returns one page of itineraries ordered by created_at descending.
// Activities for the whole page are loaded with a single extra query.
func (r *pgItineraryRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM itineraries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + itineraryColumns + `
		FROM itineraries
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	itineraries := []domain.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: scan: %w", err)
		}
		itineraries = append(itineraries, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: rows: %w", err)
	}
	rows.Close()

	if len(itineraries) == 0 {
		return itineraries, total, nil
	}

	ids := make([]uuid.UUID, len(itineraries))
	for i, it := range itineraries {
		ids[i] = it.ID
	}
	byItinerary, err := r.loadActivities(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: %w", err)
	}
	for i := range itineraries {
		itineraries[i].Activities = byItinerary[itineraries[i].ID]
		if itineraries[i].Activities == nil {
			itineraries[i].Activities = []domain.ScheduledActivity{}
		}
	}
	return itineraries, total, nil
}

// Delete removes an itinerary by primary key; its activities cascade.
func (r *pgItineraryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM itineraries WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// loadActivities returns the scheduled activities of each itinerary in ids,
// keyed by itinerary ID and in allocation order. Activity name and category
// are joined from the catalogue.
func (r *pgItineraryRepo) loadActivities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.ScheduledActivity, error) {
	const q = `
		SELECT ia.itinerary_id, ia.activity_id, a.name, a.category,
		       ia.scheduled_date, ia.scheduled_time, ia.duration_hours, ia.price, ia.participants
		FROM itinerary_activities ia
		JOIN activities a ON a.id = ia.activity_id
		WHERE ia.itinerary_id = ANY(@ids::uuid[])
		ORDER BY ia.itinerary_id, ia.position`

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": strIDs})
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.ScheduledActivity, len(ids))
	for rows.Next() {
		var (
			s           domain.ScheduledActivity
			itineraryID pgtype.UUID
			activityID  pgtype.UUID
			category    string
			date        pgtype.Date
		)
		if err := rows.Scan(&itineraryID, &activityID, &s.ActivityName, &category,
			&date, &s.ScheduledTime, &s.Duration, &s.Price, &s.Participants); err != nil {
			return nil, fmt.Errorf("load activities: scan: %w", err)
		}
		s.ActivityID = uuid.UUID(activityID.Bytes)
		s.Category = domain.Category(category)
		s.ScheduledDate = domain.DateOf(date.Time)

		key := uuid.UUID(itineraryID.Bytes)
		out[key] = append(out[key], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load activities: rows: %w", err)
	}
	return out, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanItinerary maps a single itineraries row into a domain.Itinerary
// without its activities.
func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		it domain.Itinerary
		id pgtype.UUID
	)

	err := s.Scan(&id, &it.StartDate, &it.EndDate, &it.GuestCount, &it.TotalPrice, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, domain.ErrNotFound
		}
		return domain.Itinerary{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.StartDate = it.StartDate.UTC()
	it.EndDate = it.EndDate.UTC()
	return it, nil
}

// foreignKeyViolation is the Postgres SQLSTATE for a broken reference.
const foreignKeyViolation = "23503"

// mapPgError translates Postgres constraint errors into domain sentinels and
// returns every other error unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
	}
	return err
}
