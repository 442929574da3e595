package model

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User lifecycle statuses.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusActive   = "ACTIVE"
)

// User represents a registered identity awaiting or holding approval.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string     `json:"firstName" gorm:"size:100;not null"`
	LastName     string     `json:"lastName" gorm:"size:100;not null"`
	Role         string     `json:"role" gorm:"size:50;default:'user';index;check:role IN ('user','admin')"`
	Status       string     `json:"status" gorm:"size:50;default:'PENDING';index;check:status IN ('PENDING','APPROVED','REJECTED','ACTIVE')"`
	ApprovedBy   *uint      `json:"approvedBy,omitempty"` // soft reference to the deciding admin
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
}

// Approvable reports whether the user can still be approved or rejected.
func (u *User) Approvable() bool {
	return u.Status == StatusPending
}

// GoodStanding reports whether the user may authenticate. Admins bypass the
// status gate entirely; regular users need an approved or active account.
func (u *User) GoodStanding() bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Status == StatusApproved || u.Status == StatusActive
}
