package role

import "strings"

// Role represents a single platform role as a bitflag
type Role uint

const (
	PlatformAdmin Role = 1 << iota
	CompanyAdmin
	EventManager
	Staff
	Attendee
)

var names = map[Role]string{
	PlatformAdmin: "PLATFORM_ADMIN",
	CompanyAdmin:  "COMPANY_ADMIN",
	EventManager:  "EVENT_MANAGER",
	Staff:         "STAFF",
	Attendee:      "ATTENDEE",
}

// order keeps Strings deterministic
var order = []Role{PlatformAdmin, CompanyAdmin, EventManager, Staff, Attendee}

// String returns the role name as issued by the backend
func (role Role) String() string {
	if name, ok := names[role]; ok {
		return name
	}
	return "UNKNOWN"
}

// Set represents a container of roles and provides methods to simplify working with them
type Set uint

// EmptySet provides a role set without any roles
const EmptySet Set = 0

// Parse converts role strings into a role set.
// Role names are matched case-insensitively; unknown names are ignored.
func Parse(raw []string) Set {
	set := EmptySet
	for _, name := range raw {
		name = strings.ToUpper(strings.TrimSpace(name))
		for role, known := range names {
			if known == name {
				set = set.With(role)
				break
			}
		}
	}
	return set
}

// Of builds a role set out of the given roles
func Of(roles ...Role) Set {
	return EmptySet.With(roles...)
}

// Has checks if the set has all the given roles set
func (cur Set) Has(roles ...Role) bool {
	for _, role := range roles {
		if uint(cur)&uint(role) == 0 {
			return false
		}
	}
	return true
}

// HasAny checks if the set shares at least one role with other
func (cur Set) HasAny(other Set) bool {
	return uint(cur)&uint(other) != 0
}

// With returns a new set with the given roles and the current ones set
func (cur Set) With(roles ...Role) Set {
	val := uint(cur)
	for _, role := range roles {
		val |= uint(role)
	}
	return Set(val)
}

// Strings returns the names of all roles in the set
func (cur Set) Strings() []string {
	res := []string{}
	for _, role := range order {
		if cur.Has(role) {
			res = append(res, role.String())
		}
	}
	return res
}
