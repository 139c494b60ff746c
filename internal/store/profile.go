package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileTableName = "startpoint.profiles"

var profileColumns = utils.StructTagValues(types.Profile{})

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Profile(ctx context.Context, userID string) (*types.Profile, error) {
	query, args, err := psql().
		Select(profileColumns...).
		From(profileTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile query: %w", err)
	}

	var profile types.Profile
	err = pgxscan.Get(ctx, r.pool, &profile, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &profile, nil
}

// ReferralCodesWithPrefix returns every issued referral code starting with prefix.
func (r *ProfileRepository) ReferralCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := psql().
		Select("referral_code").
		From(profileTableName).
		Where(sq.Like{"referral_code": strings.ToUpper(prefix) + "%"}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral code query: %w", err)
	}

	var codes = make([]string, 0)
	err = pgxscan.Select(ctx, r.pool, &codes, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch referral codes: %w", err)
	}

	return codes, nil
}

func (r *ProfileRepository) SetReferralCode(ctx context.Context, userID, code string) error {
	query, args, err := psql().
		Update(profileTableName).
		Set("referral_code", code).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate referral code update for profile %s: %w", userID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set referral code: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrProfileNotFound
	}

	return nil
}

// UpsertProfile inserts the profile or refreshes its name, email and role.
// An existing referral code is left untouched.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *types.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query, args, err := psql().
		Insert(profileTableName).
		SetMap(utils.StructToMap(profile)).
		Suffix("ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, email = EXCLUDED.email, role = EXCLUDED.role, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert profile query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert profile")
}
