package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// ActivityRepo defines the persistence operations for the activity catalogue.
type ActivityRepo interface {
	// Create inserts a new activity and returns the persisted record.
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// GetByID retrieves a single activity by its UUID primary key.
	// Returns domain.ErrNotFound if no activity with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)

	// FindByIDs returns the activities whose IDs are in ids, in no particular
	// order. IDs with no matching row are silently omitted.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error)

	// ListPaged returns one page of activities ordered by name, plus the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Activity, int64, error)

	// Update overwrites the mutable fields of an activity.
	// Returns domain.ErrNotFound if no activity with that ID exists.
	Update(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// Delete removes an activity by ID. Returns domain.ErrNotFound if it does
	// not exist and domain.ErrConflict if a saved itinerary still uses it.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every activity not referenced by a saved itinerary
	// and returns how many rows were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// pgActivityRepo is the Postgres implementation of ActivityRepo.
type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `id, name, description, category, duration_hours, base_price,
		full_day_price, half_day_price, per_person, additional_options,
		capacity_min, capacity_max, season_start, season_end, days_of_week, images,
		created_at, updated_at`

// Create inserts a new activity row and returns the full persisted record.
func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (name, description, category, duration_hours, base_price,
			full_day_price, half_day_price, per_person, additional_options,
			capacity_min, capacity_max, season_start, season_end, days_of_week, images)
		VALUES (@name, @description, @category, @duration, @base_price,
			@full_day, @half_day, @per_person, @options,
			@capacity_min, @capacity_max, @season_start, @season_end, @days_of_week, @images)
		RETURNING ` + activityColumns

	args, err := activityArgs(a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an activity by primary key.
func (r *pgActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	q := `SELECT ` + activityColumns + ` FROM activities WHERE id = @id`

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindByIDs loads all requested activities in a single round trip.
func (r *pgActivityRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error) {
	if len(ids) == 0 {
		return []domain.Activity{}, nil
	}
	q := `SELECT ` + activityColumns + ` FROM activities WHERE id = ANY(@ids::uuid[])`

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": strIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.FindByIDs: %w", err)
	}
	activities, err := collectActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.FindByIDs: %w", err)
	}
	return activities, nil
}

// ListPaged returns one page of activities ordered by name.
func (r *pgActivityRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Activity, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM activities`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ActivityRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + activityColumns + `
		FROM activities
		ORDER BY name, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ActivityRepo.ListPaged: %w", err)
	}
	activities, err := collectActivities(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ActivityRepo.ListPaged: %w", err)
	}
	return activities, total, nil
}

// Update overwrites the mutable fields of an activity and returns the updated record.
func (r *pgActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		UPDATE activities
		SET name               = @name,
		    description        = @description,
		    category           = @category,
		    duration_hours     = @duration,
		    base_price         = @base_price,
		    full_day_price     = @full_day,
		    half_day_price     = @half_day,
		    per_person         = @per_person,
		    additional_options = @options,
		    capacity_min       = @capacity_min,
		    capacity_max       = @capacity_max,
		    season_start       = @season_start,
		    season_end         = @season_end,
		    days_of_week       = @days_of_week,
		    images             = @images,
		    updated_at         = now()
		WHERE id = @id
		RETURNING ` + activityColumns

	args, err := activityArgs(a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", err)
	}
	args["id"] = a.ID

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes an activity by primary key.
func (r *pgActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM activities WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every activity that no saved itinerary references.
func (r *pgActivityRepo) DeleteAll(ctx context.Context) (int64, error) {
	const q = `
		DELETE FROM activities a
		WHERE NOT EXISTS (
			SELECT 1 FROM itinerary_activities ia WHERE ia.activity_id = a.id
		)`

	tag, err := r.db.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("repo.ActivityRepo.DeleteAll: %w", err)
	}
	return tag.RowsAffected(), nil
}

// activityArgs builds the named arguments shared by Create and Update.
// Nil slices are replaced with empty ones because the array columns are NOT NULL.
func activityArgs(a domain.Activity) (pgx.NamedArgs, error) {
	options := a.PriceDetails.AdditionalOptions
	if options == nil {
		options = []domain.PriceOption{}
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode additional options: %w", err)
	}

	days := a.Availability.DaysOfWeek
	if days == nil {
		days = []int{}
	}
	images := a.Images
	if images == nil {
		images = []string{}
	}

	return pgx.NamedArgs{
		"name":         a.Name,
		"description":  a.Description,
		"category":     string(a.Category),
		"duration":     a.Duration,
		"base_price":   a.BasePrice,
		"full_day":     a.PriceDetails.FullDay, // nil becomes NULL
		"half_day":     a.PriceDetails.HalfDay,
		"per_person":   a.PriceDetails.PerPerson,
		"options":      string(optionsJSON),
		"capacity_min": a.Capacity.Min,
		"capacity_max": a.Capacity.Max,
		"season_start": toPgDate(a.Availability.SeasonStart),
		"season_end":   toPgDate(a.Availability.SeasonEnd),
		"days_of_week": days,
		"images":       images,
	}, nil
}

// collectActivities drains rows into a non-nil slice and closes them.
func collectActivities(rows pgx.Rows) ([]domain.Activity, error) {
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return activities, nil
}

// scanActivity maps a single database row into a domain.Activity.
// Column order must match activityColumns.
func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a           domain.Activity
		id          pgtype.UUID
		category    string
		options     []byte
		seasonStart pgtype.Date
		seasonEnd   pgtype.Date
	)

	err := s.Scan(
		&id, &a.Name, &a.Description, &category, &a.Duration, &a.BasePrice,
		&a.PriceDetails.FullDay, &a.PriceDetails.HalfDay, &a.PriceDetails.PerPerson, &options,
		&a.Capacity.Min, &a.Capacity.Max, &seasonStart, &seasonEnd, &a.Availability.DaysOfWeek, &a.Images,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.Category = domain.Category(category)
	if err := json.Unmarshal(options, &a.PriceDetails.AdditionalOptions); err != nil {
		return domain.Activity{}, fmt.Errorf("decode additional options: %w", err)
	}
	a.Availability.SeasonStart = fromPgDate(seasonStart)
	a.Availability.SeasonEnd = fromPgDate(seasonEnd)

	return a, nil
}

func toPgDate(d *domain.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

func fromPgDate(d pgtype.Date) *domain.Date {
	if !d.Valid {
		return nil
	}
	out := domain.DateOf(d.Time)
	return &out
}
