package dto

import (
	"time"

	"github.com/smartcity/staff-service/internal/domain"
)

// StaffCreateRequest payload for POST /staff.
type StaffCreateRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Department string  `json:"department"`
	CityID     string  `json:"city_id"`
	VillageID  *string `json:"village_id,omitempty"`
}

// StaffUpdateRequest payload for PATCH /staff. Absent fields leave the
// stored value untouched.
type StaffUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Department *string `json:"department,omitempty"`
}

// StaffResponse is a staff record with its resolved references.
type StaffResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Roles      []string          `json:"roles"`
	Department string            `json:"department"`
	IsActive   bool              `json:"is_active"`
	City       domain.CityRef    `json:"city"`
	Village    domain.VillageRef `json:"village"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Etag       int64             `json:"etag"`
}

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries an issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
