package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smartcity/staff-service/internal/auth"
	"github.com/smartcity/staff-service/internal/config"
	"github.com/smartcity/staff-service/internal/domain"
	"github.com/smartcity/staff-service/internal/events"
	"github.com/smartcity/staff-service/internal/refclient"
	"github.com/smartcity/staff-service/internal/repository"
	apperrors "github.com/smartcity/staff-service/pkg/util"
)

const uniqueViolation = "23505"

// enrichConcurrency bounds how many records are enriched in parallel during List.
const enrichConcurrency = 8

// StaffService orchestrates staff CRUD: it validates new records against the
// external location service and joins stored records back to their city and
// village on read. The caller's bearer token arrives as an explicit argument
// and is forwarded on every downstream lookup; there is no ambient security
// context to leak across requests.
type StaffService struct {
	staff      repository.StaffRepository
	resolver   refclient.Resolver
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// StaffDependencies encapsulates collaborators for the staff service.
type StaffDependencies struct {
	StaffRepo  repository.StaffRepository
	Resolver   refclient.Resolver
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		resolver:   deps.Resolver,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateStaffInput carries the fields for a new staff record.
type CreateStaffInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	CityID     string
	VillageID  *string
}

// StaffPatch carries a partial update; nil fields leave the stored value untouched.
type StaffPatch struct {
	Name       *string
	Email      *string
	Department *string
}

// List returns all staff records enriched with resolved city/village data.
// Output order matches store order regardless of lookup completion order.
// A reference that no longer resolves yields the empty placeholder; a
// transport failure on any lookup fails the operation.
func (s *StaffService) List(ctx context.Context, token string) ([]domain.StaffView, error) {
	s.logger.Info("fetching all staff")

	records, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]domain.StaffView, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i := range records {
		i := i
		g.Go(func() error {
			view, err := s.enrich(gctx, &records[i], token)
			if err != nil {
				return err
			}
			views[i] = *view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// Get fetches the caller's own record by id and enriches it.
func (s *StaffService) Get(ctx context.Context, staffID, token string) (*domain.StaffView, error) {
	record, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("staff not found", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return s.enrich(ctx, record, token)
}

// Create validates and inserts a new staff record, returning its id.
// The checks run in a fixed fail-fast order for deterministic error
// reporting: duplicate email, missing city id, dangling city, dangling
// village. Nothing is inserted unless every check passes.
func (s *StaffService) Create(ctx context.Context, actorID string, input CreateStaffInput, token string) (string, error) {
	s.logger.Info("creating staff", zap.String("email", input.Email))

	if existing, err := s.staff.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return "", apperrors.NewConflict(
			fmt.Sprintf("staff with email: %s already exists", input.Email),
			map[string]any{"email": input.Email})
	} else if err != nil && err != pgx.ErrNoRows {
		return "", apperrors.MapError(err)
	}

	if input.CityID == "" {
		return "", apperrors.NewValidationError("city is required", nil)
	}

	if _, err := s.resolver.GetCity(ctx, input.CityID, token); err != nil {
		return "", err
	}

	if input.VillageID != nil && *input.VillageID != "" {
		if _, err := s.resolver.GetVillage(ctx, *input.VillageID, token); err != nil {
			return "", err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	staff := &domain.Staff{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleStaff,
		Department:   input.Department,
		IsActive:     true,
		CityID:       input.CityID,
		VillageID:    input.VillageID,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", apperrors.NewConflict(
				fmt.Sprintf("staff with email: %s already exists", input.Email),
				map[string]any{"email": input.Email})
		}
		return "", apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffCreated, staff.ID, actorID, events.StaffCreatedPayload{
		Email:     staff.Email,
		CityID:    staff.CityID,
		VillageID: staff.VillageID,
	})
	return staff.ID, nil
}

// Update applies a partial patch to the caller's own record. Only non-nil
// patch fields overwrite stored values; the save bumps the etag. City and
// village references are deliberately not patchable here, so no revalidation
// runs against the location service.
func (s *StaffService) Update(ctx context.Context, staffID string, patch StaffPatch) error {
	s.logger.Info("updating staff", zap.String("id", staffID))

	record, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(fmt.Sprintf("staff not found with id: %s", staffID), nil)
		}
		return apperrors.MapError(err)
	}

	fields := make([]string, 0, 3)
	if patch.Name != nil {
		record.Name = *patch.Name
		fields = append(fields, "name")
	}
	if patch.Email != nil {
		record.Email = *patch.Email
		fields = append(fields, "email")
	}
	if patch.Department != nil {
		record.Department = *patch.Department
		fields = append(fields, "department")
	}

	if err := s.staff.Update(ctx, record); err != nil {
		if err == pgx.ErrNoRows {
			// record existed moments ago, so a no-row update means the etag went stale
			return apperrors.NewConflict("staff record was modified concurrently",
				map[string]any{"id": staffID})
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffUpdated, staffID, staffID, events.StaffUpdatedPayload{
		Fields: fields,
		Etag:   record.Etag,
	})
	return nil
}

// Delete removes a staff record, failing with NotFound when it does not exist.
func (s *StaffService) Delete(ctx context.Context, actorID, id string) error {
	s.logger.Info("deleting staff", zap.String("id", id))

	record, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(fmt.Sprintf("staff not found with id: %s", id), nil)
		}
		return apperrors.MapError(err)
	}

	if err := s.staff.Delete(ctx, record.ID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(fmt.Sprintf("staff not found with id: %s", id), nil)
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffDeleted, id, actorID, events.StaffDeletedPayload{Email: record.Email})
	return nil
}

// enrich joins a record with its city and village. The two lookups run
// concurrently and independently; the join waits on both. A lookup that
// reports not-found leaves the placeholder in place rather than failing the
// record, since a stale upstream reference must not block reads.
func (s *StaffService) enrich(ctx context.Context, record *domain.Staff, token string) (*domain.StaffView, error) {
	view := domain.StaffView{Staff: *record}

	g, gctx := errgroup.WithContext(ctx)
	if record.CityID != "" {
		g.Go(func() error {
			city, err := s.resolver.GetCity(gctx, record.CityID, token)
			if err != nil {
				if apperrors.IsCode(err, apperrors.CodeNotFound) {
					return nil
				}
				return err
			}
			view.City = *city
			return nil
		})
	}
	if record.VillageID != nil && *record.VillageID != "" {
		villageID := *record.VillageID
		g.Go(func() error {
			village, err := s.resolver.GetVillage(gctx, villageID, token)
			if err != nil {
				if apperrors.IsCode(err, apperrors.CodeNotFound) {
					return nil
				}
				return err
			}
			view.Village = *village
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *StaffService) publish(ctx context.Context, eventType events.EventType, staffID, actorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
