// Package access maps session roles to the features they may use.
package access

import (
	"fmt"
	"strings"

	"github.com/bistro-ops/bistro/internal/models"
)

// Role is the label chosen for a session. It is not authenticated.
type Role string

const (
	RoleOwner   Role = "Owner"
	RoleManager Role = "Manager"
	RoleStaff   Role = "Staff"
)

func (r Role) String() string {
	return string(r)
}

// Roles lists the known roles.
func Roles() []Role {
	return []Role{RoleOwner, RoleManager, RoleStaff}
}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q (valid: Owner, Manager, Staff)", s)
}

// Feature is a protected area of the application.
type Feature string

const (
	FeatureBusinessIntelligence Feature = "Business_Intelligence"
	FeatureMenuManagement       Feature = "Menu_Management"
	FeatureBIReports            Feature = "BI_Reports"
	FeatureInventoryTracking    Feature = "Inventory_Tracking"
	FeatureWasteManagement      Feature = "Waste_Management"
	FeatureStaffScheduling      Feature = "Staff_Scheduling"
)

func (f Feature) String() string {
	return string(f)
}

// Features lists every protected feature.
func Features() []Feature {
	return []Feature{
		FeatureBusinessIntelligence,
		FeatureMenuManagement,
		FeatureBIReports,
		FeatureInventoryTracking,
		FeatureWasteManagement,
		FeatureStaffScheduling,
	}
}

var capabilities = map[Role]map[Feature]bool{
	RoleOwner: {
		FeatureBusinessIntelligence: true,
		FeatureMenuManagement:       true,
		FeatureBIReports:            true,
		FeatureInventoryTracking:    true,
		FeatureWasteManagement:      true,
		FeatureStaffScheduling:      true,
	},
	RoleManager: {
		FeatureMenuManagement:    true,
		FeatureBIReports:         true,
		FeatureInventoryTracking: true,
		FeatureWasteManagement:   true,
		FeatureStaffScheduling:   true,
	},
	RoleStaff: {
		FeatureInventoryTracking: true,
		FeatureWasteManagement:   true,
	},
}

// Allows reports whether role may use feature. Unknown roles and
// features are denied.
func Allows(role Role, feature Feature) bool {
	return capabilities[role][feature]
}

// DeniedError is returned when a role tries to use a feature it lacks.
type DeniedError struct {
	Role    Role
	Feature Feature
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("role %s may not use %s", e.Role, e.Feature)
}

func (e *DeniedError) Unwrap() error {
	return models.ErrPermissionDenied
}

// Authorizer checks features for one session role. The table is consulted
// on every call.
type Authorizer struct {
	role   Role
	onDeny func(Role, Feature)
}

// For returns an Authorizer for role.
func For(role Role) *Authorizer {
	return &Authorizer{role: role}
}

// OnDeny registers fn to observe every denied check.
func (a *Authorizer) OnDeny(fn func(Role, Feature)) *Authorizer {
	a.onDeny = fn
	return a
}

// Role returns the session role.
func (a *Authorizer) Role() Role {
	return a.role
}

// Can reports whether the session role may use feature.
func (a *Authorizer) Can(feature Feature) bool {
	return Allows(a.role, feature)
}

// Authorize returns a *DeniedError unless the session role may use feature.
func (a *Authorizer) Authorize(feature Feature) error {
	if Allows(a.role, feature) {
		return nil
	}
	if a.onDeny != nil {
		a.onDeny(a.role, feature)
	}
	return &DeniedError{Role: a.role, Feature: feature}
}
