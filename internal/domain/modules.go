package domain

// ModuleID identifies a dashboard module (a top-level navigation area).
type ModuleID string

const (
	ModuleOverview   ModuleID = "overview"
	ModuleClients    ModuleID = "clients"
	ModuleLocations  ModuleID = "locations"
	ModuleFacilities ModuleID = "facilities"
	ModuleBookings   ModuleID = "bookings"
	ModuleUsers      ModuleID = "users"
	ModuleOnboarding ModuleID = "onboarding"
)

// Valid reports whether the identifier names a known module.
func (m ModuleID) Valid() bool {
	switch m {
	case ModuleOverview, ModuleClients, ModuleLocations, ModuleFacilities,
		ModuleBookings, ModuleUsers, ModuleOnboarding:
		return true
	}
	return false
}

// roleModules is the static fallback table used when a user carries no
// explicit module list.
var roleModules = map[Role][]ModuleID{
	RoleAdmin: {
		ModuleOverview, ModuleClients, ModuleLocations, ModuleFacilities,
		ModuleBookings, ModuleUsers, ModuleOnboarding,
	},
	RoleClient: {
		ModuleOverview, ModuleLocations, ModuleFacilities, ModuleBookings,
	},
	RoleEndUser: {
		ModuleOverview, ModuleBookings,
	},
}

// ResolveVisibleModules returns the modules visible to a user. An explicit
// non-empty list wins; otherwise the role default applies. Unknown roles see
// nothing. The returned slice is always a copy.
func ResolveVisibleModules(role Role, explicit []ModuleID) []ModuleID {
	if len(explicit) > 0 {
		out := make([]ModuleID, len(explicit))
		copy(out, explicit)
		return out
	}
	defaults, ok := roleModules[role]
	if !ok {
		return []ModuleID{}
	}
	out := make([]ModuleID, len(defaults))
	copy(out, defaults)
	return out
}
