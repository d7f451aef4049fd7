package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/profile"
)

type profileRow struct {
	UserID      string         `db:"user_id"`
	FullName    string         `db:"full_name"`
	Major       string         `db:"major"`
	GPA         float64        `db:"gpa"`
	Skills      pq.StringArray `db:"skills"`
	Preferences string         `db:"preferences"`
}

func newProfileRow(p profile.StudentProfile) profileRow {
	return profileRow{
		UserID:      p.UserID,
		FullName:    p.FullName,
		Major:       p.Major,
		GPA:         p.GPA,
		Skills:      stringArray(p.Skills),
		Preferences: p.Preferences,
	}
}

func (r profileRow) toProfile() profile.StudentProfile {
	return profile.StudentProfile{
		UserID:      r.UserID,
		FullName:    r.FullName,
		Major:       r.Major,
		GPA:         r.GPA,
		Skills:      append([]string{}, r.Skills...),
		Preferences: r.Preferences,
	}
}

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetProfile(ctx context.Context, userID string) (profile.StudentProfile, error) {
	var row profileRow
	err := repo.db.GetContext(ctx, &row,
		"SELECT user_id, full_name, major, gpa, skills, preferences FROM profiles WHERE user_id = $1", userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return profile.StudentProfile{}, profile.ErrNotFound
		}
		return profile.StudentProfile{}, errors.Wrap(err, "selecting profile")
	}
	return row.toProfile(), nil
}

func (repo *profileRepository) SaveProfile(ctx context.Context, p profile.StudentProfile) (profile.StudentProfile, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, major, gpa, skills, preferences)
		VALUES (:user_id, :full_name, :major, :gpa, :skills, :preferences)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name, major = EXCLUDED.major, gpa = EXCLUDED.gpa,
			skills = EXCLUDED.skills, preferences = EXCLUDED.preferences`,
		newProfileRow(p),
	)
	if err != nil {
		return profile.StudentProfile{}, errors.Wrap(err, "upserting profile")
	}
	return p, nil
}
