package domain

import "time"

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

// ApprovalStatus is the moderation state of a user account. Only approved
// accounts may authenticate.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	return s == RoleFarmer || s == RoleBuyer || s == RoleAdmin
}

// User models an account in the marketplace. Farmers and buyers start out
// pending; admins are approved at creation.
type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"-"`
	Role           string         `json:"role"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Location       string         `json:"location,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	ApprovedBy     string         `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// FullName returns the display name carried in token claims.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanAuthenticate reports whether the account's approval state permits login.
func (u *User) CanAuthenticate() bool {
	return u.ApprovalStatus == ApprovalApproved
}

// InitialApprovalStatus returns the approval state assigned at registration:
// admins are auto-approved, everyone else awaits moderation.
func InitialApprovalStatus(role string) ApprovalStatus {
	if role == RoleAdmin {
		return ApprovalApproved
	}
	return ApprovalPending
}

// CanApproveFrom reports whether an admin may move an account from the given
// state to approved. Rejection is final unless re-approval is explicitly
// enabled in configuration.
func CanApproveFrom(current ApprovalStatus, allowRejectedReapproval bool) bool {
	switch current {
	case ApprovalPending, ApprovalApproved:
		return true
	case ApprovalRejected:
		return allowRejectedReapproval
	}
	return false
}
