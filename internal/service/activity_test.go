package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
	"github.com/pkordes/itinerary-planner/backend/internal/repo"
	"github.com/pkordes/itinerary-planner/backend/internal/service"
)

// mockActivityRepo is a hand-written test double for repo.ActivityRepo.
type mockActivityRepo struct {
	create    func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	findByIDs func(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Activity, int64, error)
	update    func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	delete    func(ctx context.Context, id uuid.UUID) error
	deleteAll func(ctx context.Context) (int64, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, id)
}
func (m *mockActivityRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error) {
	return m.findByIDs(ctx, ids)
}
func (m *mockActivityRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Activity, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.update(ctx, a)
}
func (m *mockActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockActivityRepo) DeleteAll(ctx context.Context) (int64, error) {
	return m.deleteAll(ctx)
}

// compile-time check: mockActivityRepo must satisfy repo.ActivityRepo.
var _ repo.ActivityRepo = (*mockActivityRepo)(nil)

func echoActivityRepo() *mockActivityRepo {
	// Echoes whatever it receives; used by tests that only care about validation.
	return &mockActivityRepo{
		create: func(_ context.Context, a domain.Activity) (domain.Activity, error) { return a, nil },
		update: func(_ context.Context, a domain.Activity) (domain.Activity, error) { return a, nil },
	}
}

func validActivity() domain.Activity {
	return domain.Activity{
		Name:        "Cliff-Side Dinner for Two",
		Description: "Private dinner on the canyon rim.",
		Category:    domain.CategoryDining,
		Duration:    3,
		BasePrice:   600,
	}
}

func TestActivityService_Create_Valid(t *testing.T) {
	svc := service.NewActivityService(echoActivityRepo())

	a := validActivity()
	a.Name = "  Cliff-Side Dinner for Two  "
	got, err := svc.Create(context.Background(), a)

	require.NoError(t, err)
	assert.Equal(t, "Cliff-Side Dinner for Two", got.Name)
	assert.Equal(t, 1, got.Capacity.Min, "capacity.min defaults to 1")
}

func TestActivityService_Create_Invalid(t *testing.T) {
	negative := -1.0
	two := 2
	seasonStart := domain.NewDate(2025, 10, 1)
	seasonEnd := domain.NewDate(2025, 5, 1)

	tests := []struct {
		name    string
		mutate  func(a *domain.Activity)
		wantMsg string
	}{
		{"blank name", func(a *domain.Activity) { a.Name = "   " }, "name is required"},
		{"blank description", func(a *domain.Activity) { a.Description = "" }, "description is required"},
		{"unknown category", func(a *domain.Activity) { a.Category = "Skydiving" }, "category"},
		{"zero duration", func(a *domain.Activity) { a.Duration = 0 }, "duration"},
		{"negative base price", func(a *domain.Activity) { a.BasePrice = -5 }, "basePrice"},
		{"negative full day", func(a *domain.Activity) { a.PriceDetails.FullDay = &negative }, "fullDay"},
		{"negative half day", func(a *domain.Activity) { a.PriceDetails.HalfDay = &negative }, "halfDay"},
		{"max below min", func(a *domain.Activity) {
			a.Capacity = domain.Capacity{Min: 3, Max: &two}
		}, "capacity.max"},
		{"negative capacity min", func(a *domain.Activity) { a.Capacity.Min = -1 }, "capacity.min"},
		{"unnamed option", func(a *domain.Activity) {
			a.PriceDetails.AdditionalOptions = []domain.PriceOption{{Price: 10}}
		}, "option name"},
		{"season reversed", func(a *domain.Activity) {
			a.Availability.SeasonStart = &seasonStart
			a.Availability.SeasonEnd = &seasonEnd
		}, "seasonEnd"},
		{"bad weekday", func(a *domain.Activity) { a.Availability.DaysOfWeek = []int{1, 7} }, "daysOfWeek"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewActivityService(echoActivityRepo())
			a := validActivity()
			tc.mutate(&a)

			_, err := svc.Create(context.Background(), a)

			require.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestActivityService_Update_ValidatesBeforeRepo(t *testing.T) {
	r := &mockActivityRepo{
		update: func(_ context.Context, _ domain.Activity) (domain.Activity, error) {
			t.Fatal("repo.Update must not be called for invalid input")
			return domain.Activity{}, nil
		},
	}
	svc := service.NewActivityService(r)

	a := validActivity()
	a.Category = ""
	_, err := svc.Update(context.Background(), a)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestActivityService_GetByID_NotFound(t *testing.T) {
	r := &mockActivityRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Activity, error) {
			return domain.Activity{}, domain.ErrNotFound
		},
	}
	svc := service.NewActivityService(r)

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_List(t *testing.T) {
	r := &mockActivityRepo{
		listPaged: func(_ context.Context, _ domain.PaginationParams) ([]domain.Activity, int64, error) {
			return []domain.Activity{validActivity(), validActivity()}, 9, nil
		},
	}
	svc := service.NewActivityService(r)

	got, err := svc.List(context.Background(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.EqualValues(t, 9, got.Total)
}

func TestActivityService_Delete_Conflict(t *testing.T) {
	r := &mockActivityRepo{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrConflict },
	}
	svc := service.NewActivityService(r)

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrConflict)
}
