package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smartcity/staff-service/internal/domain"
	apperrors "github.com/smartcity/staff-service/pkg/util"
)

// mockStaffRepo is a map-backed StaffRepository preserving insertion order.
type mockStaffRepo struct {
	mu      sync.Mutex
	records map[string]domain.Staff
	order   []string
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{records: make(map[string]domain.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *domain.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.Email == staff.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_staff_email"}
		}
	}
	staff.Etag = 1
	m.records[staff.ID] = *staff
	m.order = append(m.order, staff.ID)
	return nil
}

func (m *mockStaffRepo) Update(_ context.Context, staff *domain.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[staff.ID]
	if !ok || existing.Etag != staff.Etag {
		return pgx.ErrNoRows
	}
	staff.Etag++
	m.records[staff.ID] = *staff
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if staff, ok := m.records[id]; ok {
		copied := staff
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStaffRepo) GetByEmail(_ context.Context, email string) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, staff := range m.records {
		if staff.Email == email {
			copied := staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStaffRepo) List(_ context.Context) ([]domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Staff, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.records[id])
	}
	return result, nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockStaffRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockResolver resolves against fixed maps and counts downstream calls.
type mockResolver struct {
	cities       map[string]domain.CityRef
	villages     map[string]domain.VillageRef
	unavailable  bool
	cityCalls    atomic.Int32
	villageCalls atomic.Int32
	lastToken    atomic.Value
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		cities:   make(map[string]domain.CityRef),
		villages: make(map[string]domain.VillageRef),
	}
}

func (m *mockResolver) GetCity(_ context.Context, id, token string) (*domain.CityRef, error) {
	m.cityCalls.Add(1)
	m.lastToken.Store(token)
	if m.unavailable {
		return nil, apperrors.NewUnavailable("location service unavailable", nil)
	}
	if city, ok := m.cities[id]; ok {
		copied := city
		return &copied, nil
	}
	return nil, apperrors.NewNotFound("city not found with id: "+id, map[string]any{"city_id": id})
}

func (m *mockResolver) GetVillage(_ context.Context, id, token string) (*domain.VillageRef, error) {
	m.villageCalls.Add(1)
	m.lastToken.Store(token)
	if m.unavailable {
		return nil, apperrors.NewUnavailable("location service unavailable", nil)
	}
	if village, ok := m.villages[id]; ok {
		copied := village
		return &copied, nil
	}
	return nil, apperrors.NewNotFound("village not found with id: "+id, map[string]any{"village_id": id})
}
