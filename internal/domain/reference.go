package domain

// CityRef is the read-only city shape owned by the external location service.
// The zero value doubles as the placeholder for an unset or unresolvable city.
type CityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VillageRef is the read-only village shape owned by the external location service.
type VillageRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StaffView is a staff record joined with its resolved city and village.
// City/Village stay at their zero value when the reference is unset or the
// lookup reported not-found.
type StaffView struct {
	Staff   Staff
	City    CityRef
	Village VillageRef
}
