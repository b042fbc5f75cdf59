// Package domain defines the core entities of the venuedesk admin dashboard.
// Every entity is owned and persisted by the upstream booking platform; the
// BFF holds only request-scoped or session-scoped copies and never mints IDs.
package domain

import "time"

// ============================================================
// Users
// ============================================================

// Role is the fixed set of platform roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClient  Role = "client"
	RoleEndUser Role = "user"
)

// UserProfile represents the authenticated dashboard user.
type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	// Modules lists the dashboard modules enabled for this user. When empty
	// or absent, visibility falls back to the role default table.
	Modules   []ModuleID `json:"modules,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// ============================================================
// Clients (businesses)
// ============================================================

// ClientStatus is the lifecycle status of a business client.
type ClientStatus string

const (
	ClientPending   ClientStatus = "pending"
	ClientApproved  ClientStatus = "approved"
	ClientActive    ClientStatus = "active"
	ClientRejected  ClientStatus = "rejected"
	ClientSuspended ClientStatus = "suspended"
)

// Client represents a business (gaming center, sports facility operator).
type Client struct {
	ID          string       `json:"id"`
	CompanyName string       `json:"company_name"`
	ContactName string       `json:"contact_name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	PostalCode  string       `json:"postal_code,omitempty"`
	Website     string       `json:"website,omitempty"`
	Description string       `json:"description,omitempty"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	Status      ClientStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ClientStatistics is the aggregate shown on the dashboard landing view.
type ClientStatistics struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Active    int `json:"active"`
	Rejected  int `json:"rejected"`
	Suspended int `json:"suspended"`
}

// ============================================================
// Locations
// ============================================================

// Location belongs to exactly one Client.
type Location struct {
	ID        string   `json:"id"`
	ClientID  string   `json:"client_id"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ============================================================
// Facilities
// ============================================================

// FacilityType enumerates the kinds of bookable facilities.
type FacilityType string

const (
	FacilityGamingStation FacilityType = "gaming_station"
	FacilityCourt         FacilityType = "court"
	FacilityField         FacilityType = "field"
	FacilityTable         FacilityType = "table"
	FacilityRoom          FacilityType = "room"
)

// FacilityStatus is the operational status of a facility.
type FacilityStatus string

const (
	FacilityActive      FacilityStatus = "active"
	FacilityInactive    FacilityStatus = "inactive"
	FacilityMaintenance FacilityStatus = "maintenance"
)

// Facility belongs to exactly one Location.
type Facility struct {
	ID         string         `json:"id"`
	LocationID string         `json:"location_id"`
	Name       string         `json:"name"`
	Type       FacilityType   `json:"type"`
	Status     FacilityStatus `json:"status"`
	Capacity   *int           `json:"capacity,omitempty"`
}

// FacilityFilter narrows facility listings. Zero values mean "no filter".
type FacilityFilter struct {
	Search     string
	Type       FacilityType
	LocationID string
}

// ============================================================
// Bookings
// ============================================================

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking references a user, a location, and optionally a facility.
type Booking struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	LocationID string        `json:"location_id"`
	FacilityID string        `json:"facility_id,omitempty"`
	Status     BookingStatus `json:"status"`
	StartsAt   time.Time     `json:"starts_at"`
	EndsAt     time.Time     `json:"ends_at"`
	CreatedAt  time.Time     `json:"created_at"`
}
