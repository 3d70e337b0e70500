package domain

import (
	"strings"
	"time"
)

// Staff roles as stored in the comma-separated role column.
const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// Staff models a municipal staff record. The record owns its credentials
// (password hash, roles, active flag) since this service issues staff tokens.
// CityID is a required reference into the external location service,
// VillageID an optional one; neither is stored locally beyond the id.
type Staff struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Department   string
	IsActive     bool
	CityID       string
	VillageID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Etag         int64
}

// Roles splits the comma-separated role column into individual role names.
func (s *Staff) Roles() []string {
	if s.Role == "" {
		return nil
	}
	parts := strings.Split(s.Role, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles
}

// HasRole reports whether the record carries the given role.
func (s *Staff) HasRole(role string) bool {
	for _, r := range s.Roles() {
		if r == role {
			return true
		}
	}
	return false
}
