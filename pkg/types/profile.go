package types

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleClient Role = "client"
)

type Profile struct {
	ID           string    `db:"id"`
	FullName     *string   `db:"full_name"`
	Email        *string   `db:"email"`
	Role         Role      `db:"role"`
	ReferralCode *string   `db:"referral_code"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (p *Profile) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
