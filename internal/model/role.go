package model

// Role is the closed set of user roles understood by the system.  The JWT
// "role" claim and the users.role column both carry the string form; code
// should convert through ParseRole and switch on the typed value rather
// than comparing raw strings.
type Role string

const (
	RoleOMCAdmin       Role = "OMC_ADMIN"       // manages an OMC's catalog, stations and staff
	RoleStationManager Role = "STATION_MANAGER" // manages a single station
	RolePumpAttendant  Role = "PUMP_ATTENDANT"  // redeems tokens at the assigned station
	RoleDriver         Role = "DRIVER"          // purchases fuel tokens
)

// ParseRole converts a raw string into a Role.  The second return value is
// false when the string does not name a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOMCAdmin, RoleStationManager, RolePumpAttendant, RoleDriver:
		return Role(s), true
	}
	return "", false
}

// String returns the wire form of the role.
func (r Role) String() string { return string(r) }
