package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/staff-service/internal/api/dto"
	"github.com/smartcity/staff-service/internal/auth"
	"github.com/smartcity/staff-service/internal/domain"
	"github.com/smartcity/staff-service/internal/service"
	apperrors "github.com/smartcity/staff-service/pkg/util"
)

// StaffHandler exposes staff CRUD endpoints. It extracts the caller's
// identity and bearer credential once per request and hands both to the
// service explicitly.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// List handles GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	_, token, err := callerContext(c)
	if err != nil {
		return err
	}
	views, err := h.staffService.List(c.UserContext(), token)
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(views))
	for i := range views {
		resp = append(resp, staffResponse(&views[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Me handles GET /staff/me: the caller's identity is the record id.
func (h *StaffHandler) Me(c *fiber.Ctx) error {
	principal, token, err := callerContext(c)
	if err != nil {
		return err
	}
	view, err := h.staffService.Get(c.UserContext(), principal.Staff.ID, token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(view)})
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	principal, token, err := callerContext(c)
	if err != nil {
		return err
	}
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	id, err := h.staffService.Create(c.UserContext(), principal.Staff.ID, service.CreateStaffInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		CityID:     req.CityID,
		VillageID:  req.VillageID,
	}, token)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// Update handles PATCH /staff: patches the caller's own record.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	principal, _, err := callerContext(c)
	if err != nil {
		return err
	}
	var req dto.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.staffService.Update(c.UserContext(), principal.Staff.ID, service.StaffPatch{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	}); err != nil {
		return err
	}
	return c.SendStatus(http.StatusAccepted)
}

// Delete handles DELETE /staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	principal, _, err := callerContext(c)
	if err != nil {
		return err
	}
	if err := h.staffService.Delete(c.UserContext(), principal.Staff.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func callerContext(c *fiber.Ctx) (*auth.Principal, string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return nil, "", apperrors.NewUnauthenticated("authentication required")
	}
	token, ok := auth.CredentialFromContext(c)
	if !ok {
		return nil, "", apperrors.NewInvalidCredential("bearer credential required")
	}
	return principal, token, nil
}

func staffResponse(view *domain.StaffView) dto.StaffResponse {
	return dto.StaffResponse{
		ID:         view.Staff.ID,
		Name:       view.Staff.Name,
		Email:      view.Staff.Email,
		Roles:      view.Staff.Roles(),
		Department: view.Staff.Department,
		IsActive:   view.Staff.IsActive,
		City:       view.City,
		Village:    view.Village,
		CreatedAt:  view.Staff.CreatedAt,
		UpdatedAt:  view.Staff.UpdatedAt,
		Etag:       view.Staff.Etag,
	}
}
