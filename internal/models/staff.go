package models

// StaffRole is the job a shift is scheduled for.
type StaffRole string

const (
	StaffRoleChef    StaffRole = "Chef"
	StaffRoleWaiter  StaffRole = "Waiter"
	StaffRoleManager StaffRole = "Manager"
	StaffRoleCleaner StaffRole = "Cleaner"
	StaffRoleOther   StaffRole = "Other"
)

func (r StaffRole) String() string {
	return string(r)
}

// StaffRoles lists the accepted roles in display order.
func StaffRoles() []StaffRole {
	return []StaffRole{StaffRoleChef, StaffRoleWaiter, StaffRoleManager, StaffRoleCleaner, StaffRoleOther}
}

// IsValid reports whether r is one of the accepted roles.
func (r StaffRole) IsValid() bool {
	for _, v := range StaffRoles() {
		if r == v {
			return true
		}
	}
	return false
}

// ShiftTimeLayout is the layout of a shift start time.
const ShiftTimeLayout = "15:04"

// StaffShift is one scheduled shift on the rota.
type StaffShift struct {
	ID   string    `json:"id,omitempty"`
	Name string    `json:"Name"`
	Date Date      `json:"Date"`
	Time string    `json:"Time"`
	Role StaffRole `json:"Role"`
}
