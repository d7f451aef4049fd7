package inmem

import (
	"context"

	"github.com/trezcool/edumatch/core/profile"
)

type profileRepository struct {
	db *profileTable
}

var _ profile.Repository = (*profileRepository)(nil)

func (repo *profileRepository) GetProfile(_ context.Context, userID string) (profile.StudentProfile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[userID]; ok {
		return clone(*p), nil
	}
	return profile.StudentProfile{}, profile.ErrNotFound
}

func (repo *profileRepository) SaveProfile(_ context.Context, p profile.StudentProfile) (profile.StudentProfile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p = clone(p)
	repo.db.table[p.UserID] = &p
	return clone(p), nil
}

func clone(p profile.StudentProfile) profile.StudentProfile {
	p.Skills = append([]string{}, p.Skills...)
	return p
}
