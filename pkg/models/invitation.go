package models

import "time"

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Invitation is a single-use, time-boxed invite to join the team.
// Email is empty in magic-link mode, where the admin copies the signup
// URL and delivers it out of band.
type Invitation struct {
	ID        string           `json:"id" db:"id"`
	Email     string           `json:"email,omitempty" db:"email"`
	Role      UserRole         `json:"role" db:"role"`
	InvitedBy string           `json:"invited_by" db:"invited_by"`
	Token     string           `json:"token" db:"token"`
	Status    InvitationStatus `json:"status" db:"status"`
	ExpiresAt time.Time        `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// InvitationTTL is how long a token stays redeemable
const InvitationTTL = 7 * 24 * time.Hour

// Expired reports whether the token is past its expiry boundary.
// Checked lazily at verification time; nothing sweeps in the background.
func (inv *Invitation) Expired(now time.Time) bool {
	return now.After(inv.ExpiresAt)
}

// CreateInvitationRequest creates an invite. Email empty = magic-link mode.
type CreateInvitationRequest struct {
	Email string   `json:"email,omitempty" validate:"omitempty,email"`
	Role  UserRole `json:"role" validate:"required"`
}
