package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartcity/staff-service/internal/config"
	"github.com/smartcity/staff-service/internal/domain"
	"github.com/smartcity/staff-service/internal/events"
	apperrors "github.com/smartcity/staff-service/pkg/util"
)

const testToken = "caller-bearer-token"

func setupStaffService() (*StaffService, *mockStaffRepo, *mockResolver) {
	repo := newMockStaffRepo()
	resolver := newMockResolver()
	resolver.cities["c1"] = domain.CityRef{ID: "c1", Name: "Metropolis"}
	resolver.villages["v1"] = domain.VillageRef{ID: "v1", Name: "Riverside"}

	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	svc := NewStaffService(cfg, StaffDependencies{
		StaffRepo: repo,
		Resolver:  resolver,
		Logger:    zap.NewNop(),
	})
	return svc, repo, resolver
}

func seedStaff(t *testing.T, repo *mockStaffRepo, id, email, cityID string, villageID *string) *domain.Staff {
	t.Helper()
	staff := &domain.Staff{
		ID:         id,
		Name:       "Seeded",
		Email:      email,
		Role:       domain.RoleStaff,
		Department: "sanitation",
		IsActive:   true,
		CityID:     cityID,
		VillageID:  villageID,
	}
	if err := repo.Create(context.Background(), staff); err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	return staff
}

func strPtr(s string) *string { return &s }

func TestStaffService_Create_Success(t *testing.T) {
	svc, repo, _ := setupStaffService()

	id, err := svc.Create(context.Background(), "admin-1", CreateStaffInput{
		Name:       "Ada",
		Email:      "a@x.com",
		Password:   "secret",
		Department: "roads",
		CityID:     "c1",
		VillageID:  strPtr("v1"),
	}, testToken)
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	stored, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("created record not retrievable: %v", err)
	}
	if stored.Email != "a@x.com" || stored.Department != "roads" || stored.CityID != "c1" {
		t.Errorf("stored record mismatch: %+v", stored)
	}
	if stored.VillageID == nil || *stored.VillageID != "v1" {
		t.Errorf("expected village_id v1, got %v", stored.VillageID)
	}
	if stored.Role != domain.RoleStaff || !stored.IsActive {
		t.Errorf("expected active STAFF record, got role=%q active=%v", stored.Role, stored.IsActive)
	}
	if stored.Etag != 1 {
		t.Errorf("expected initial etag 1, got %d", stored.Etag)
	}
	if stored.PasswordHash == "secret" || stored.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestStaffService_Create_DuplicateEmail(t *testing.T) {
	svc, repo, resolver := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", nil)

	_, err := svc.Create(context.Background(), "admin-1", CreateStaffInput{
		Name:     "Dup",
		Email:    "a@x.com",
		Password: "secret",
		CityID:   "c1",
	}, testToken)
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if repo.count() != 1 {
		t.Errorf("no record may be inserted on conflict, have %d", repo.count())
	}
	if resolver.cityCalls.Load() != 0 {
		t.Error("email check must fail before any downstream call")
	}
}

func TestStaffService_Create_MissingCity(t *testing.T) {
	svc, repo, resolver := setupStaffService()

	_, err := svc.Create(context.Background(), "admin-1", CreateStaffInput{
		Name:     "Ada",
		Email:    "a@x.com",
		Password: "secret",
	}, testToken)
	if !apperrors.IsCode(err, apperrors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if resolver.cityCalls.Load() != 0 || resolver.villageCalls.Load() != 0 {
		t.Error("missing city must be rejected before any downstream call")
	}
	if repo.count() != 0 {
		t.Error("no record may be inserted")
	}
}

func TestStaffService_Create_CityNotFound(t *testing.T) {
	svc, repo, resolver := setupStaffService()

	_, err := svc.Create(context.Background(), "admin-1", CreateStaffInput{
		Name:      "Ada",
		Email:     "a@x.com",
		Password:  "secret",
		CityID:    "ghost",
		VillageID: strPtr("v1"),
	}, testToken)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if resolver.villageCalls.Load() != 0 {
		t.Error("village must never be checked when the city is dangling")
	}
	if repo.count() != 0 {
		t.Error("no record may be inserted")
	}
}

func TestStaffService_Create_VillageNotFound(t *testing.T) {
	svc, repo, _ := setupStaffService()

	_, err := svc.Create(context.Background(), "admin-1", CreateStaffInput{
		Name:      "Ada",
		Email:     "a@x.com",
		Password:  "secret",
		CityID:    "c1",
		VillageID: strPtr("ghost"),
	}, testToken)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if repo.count() != 0 {
		t.Error("no record may be inserted")
	}
}

func TestStaffService_Create_PropagatesCallerToken(t *testing.T) {
	svc, _, resolver := setupStaffService()

	_, err := svc.Create(context.Background(), "admin-1", CreateStaffInput{
		Name:     "Ada",
		Email:    "a@x.com",
		Password: "secret",
		CityID:   "c1",
	}, testToken)
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if got := resolver.lastToken.Load(); got != testToken {
		t.Errorf("downstream call must carry the caller's token, got %v", got)
	}
}

func TestStaffService_Create_PublishesEvent(t *testing.T) {
	repo := newMockStaffRepo()
	resolver := newMockResolver()
	resolver.cities["c1"] = domain.CityRef{ID: "c1", Name: "Metropolis"}

	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventStaffCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	svc := NewStaffService(cfg, StaffDependencies{
		StaffRepo:  repo,
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})

	id, err := svc.Create(context.Background(), "admin-1", CreateStaffInput{
		Name:     "Ada",
		Email:    "a@x.com",
		Password: "secret",
		CityID:   "c1",
	}, testToken)
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("expected 1 staff_created event, got %d", len(published))
	}
	if published[0].StaffID != id || published[0].ActorID != "admin-1" {
		t.Errorf("event mismatch: %+v", published[0])
	}
}

func TestStaffService_Get_Enriched(t *testing.T) {
	svc, repo, _ := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", strPtr("v1"))

	view, err := svc.Get(context.Background(), "s1", testToken)
	if err != nil {
		t.Fatalf("Get should succeed: %v", err)
	}
	if view.City.ID != "c1" || view.City.Name != "Metropolis" {
		t.Errorf("expected resolved city, got %+v", view.City)
	}
	if view.Village.ID != "v1" || view.Village.Name != "Riverside" {
		t.Errorf("expected resolved village, got %+v", view.Village)
	}
}

func TestStaffService_Get_NotFound(t *testing.T) {
	svc, _, _ := setupStaffService()

	_, err := svc.Get(context.Background(), "missing", testToken)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStaffService_Get_DanglingVillagePlaceholder(t *testing.T) {
	svc, repo, _ := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", strPtr("deleted-village"))

	view, err := svc.Get(context.Background(), "s1", testToken)
	if err != nil {
		t.Fatalf("a dangling village must not fail the read: %v", err)
	}
	if view.Village != (domain.VillageRef{}) {
		t.Errorf("expected empty village placeholder, got %+v", view.Village)
	}
	if view.City.ID != "c1" {
		t.Errorf("city should still resolve, got %+v", view.City)
	}
}

func TestStaffService_Update_PartialPatch(t *testing.T) {
	svc, repo, _ := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", nil)

	if err := svc.Update(context.Background(), "s1", StaffPatch{Name: strPtr("Renamed")}); err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), "s1")
	if err != nil {
		t.Fatalf("record lost after update: %v", err)
	}
	if stored.Name != "Renamed" {
		t.Errorf("expected patched name, got %q", stored.Name)
	}
	if stored.Email != "a@x.com" || stored.Department != "sanitation" {
		t.Errorf("untouched fields changed: email=%q department=%q", stored.Email, stored.Department)
	}
	if stored.Etag != 2 {
		t.Errorf("etag must strictly increase, got %d", stored.Etag)
	}
}

func TestStaffService_Update_NotFound(t *testing.T) {
	svc, _, _ := setupStaffService()

	err := svc.Update(context.Background(), "missing", StaffPatch{Name: strPtr("x")})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStaffService_List_PreservesOrderAndPlaceholders(t *testing.T) {
	svc, repo, _ := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", strPtr("v1"))
	seedStaff(t, repo, "s2", "b@x.com", "gone-city", nil)
	seedStaff(t, repo, "s3", "c@x.com", "c1", nil)

	views, err := svc.List(context.Background(), testToken)
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	for i, want := range []string{"s1", "s2", "s3"} {
		if views[i].Staff.ID != want {
			t.Errorf("order not preserved at %d: want %s got %s", i, want, views[i].Staff.ID)
		}
	}
	if views[0].City.ID != "c1" || views[0].Village.ID != "v1" {
		t.Errorf("first record should be fully enriched: %+v", views[0])
	}
	if views[1].City != (domain.CityRef{}) {
		t.Errorf("dangling city must yield the empty placeholder, got %+v", views[1].City)
	}
	if views[2].City.ID != "c1" {
		t.Errorf("other records must be unaffected, got %+v", views[2].City)
	}
}

func TestStaffService_List_UnavailablePropagates(t *testing.T) {
	svc, repo, resolver := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", nil)
	resolver.unavailable = true

	_, err := svc.List(context.Background(), testToken)
	if !apperrors.IsCode(err, apperrors.CodeUnavailable) {
		t.Fatalf("expected UNAVAILABLE, got %v", err)
	}
}

func TestStaffService_Delete_Success(t *testing.T) {
	svc, repo, _ := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", nil)

	if err := svc.Delete(context.Background(), "admin-1", "s1"); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if repo.count() != 0 {
		t.Error("record not removed")
	}
}

func TestStaffService_Delete_NotFound(t *testing.T) {
	svc, repo, _ := setupStaffService()
	seedStaff(t, repo, "s1", "a@x.com", "c1", nil)

	err := svc.Delete(context.Background(), "admin-1", "missing")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if repo.count() != 1 {
		t.Error("store must be unchanged after failed delete")
	}
}
