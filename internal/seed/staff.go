package seed

import (
	"context"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"
)

type ProfileUpserter interface {
	UpsertProfile(ctx context.Context, profile *types.Profile) error
}

type staffSeed struct {
	ID       string
	FullName string
	Email    string
	Role     types.Role
}

// Local development staff. IDs match the users created in the local Supabase
// auth instance so their access tokens resolve to these profiles.
var staff = []staffSeed{
	{ID: "11111111-1111-1111-1111-111111111111", FullName: "Admin Seed", Email: "admin+seed@example.com", Role: types.RoleAdmin},
	{ID: "22222222-2222-2222-2222-222222222222", FullName: "Wendy Writer", Email: "writer+seed1@example.com", Role: types.RoleWriter},
	{ID: "33333333-3333-3333-3333-333333333333", FullName: "Walter Writer", Email: "writer+seed2@example.com", Role: types.RoleWriter},
}

// SeedStaff upserts the development staff profiles.
func SeedStaff(ctx context.Context, repo ProfileUpserter) error {
	for _, s := range staff {
		profile := &types.Profile{
			ID:       s.ID,
			FullName: utils.StringPtr(s.FullName),
			Email:    utils.StringPtr(s.Email),
			Role:     s.Role,
		}

		if err := repo.UpsertProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to upsert staff profile %s: %w", s.Email, err)
		}
	}

	fmt.Printf("Staff seeded: %d upserted\n", len(staff))
	return nil
}
