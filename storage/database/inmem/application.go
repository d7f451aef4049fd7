package inmem

import (
	"context"

	"github.com/trezcool/edumatch/core/application"
)

type applicationRepository struct {
	db *applicationTable
}

var _ application.Repository = (*applicationRepository)(nil)

func copyApplication(app application.Application) application.Application {
	if app.AIMatchScore != nil {
		score := *app.AIMatchScore
		app.AIMatchScore = &score
	}
	return app
}

func (repo *applicationRepository) CreateApplication(_ context.Context, app application.Application) (application.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	app = copyApplication(app)
	if _, ok := repo.db.table[app.ID]; !ok {
		repo.db.order = append(repo.db.order, app.ID)
	}
	repo.db.table[app.ID] = &app
	return copyApplication(app), nil
}

func (repo *applicationRepository) QueryAllApplications(context.Context) ([]application.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	apps := make([]application.Application, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		apps = append(apps, copyApplication(*repo.db.table[id]))
	}
	return apps, nil
}

func (repo *applicationRepository) GetApplicationByID(_ context.Context, id string) (application.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if app, ok := repo.db.table[id]; ok {
		return copyApplication(*app), nil
	}
	return application.Application{}, application.ErrNotFound
}

func (repo *applicationRepository) UpdateApplication(_ context.Context, app application.Application) (application.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[app.ID]; !ok {
		return application.Application{}, application.ErrNotFound
	}
	app = copyApplication(app)
	repo.db.table[app.ID] = &app
	return copyApplication(app), nil
}

func (repo *applicationRepository) CountApplications(context.Context) (int, map[application.Status]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	byStatus := make(map[application.Status]int, len(application.Statuses))
	for _, s := range application.Statuses {
		byStatus[s] = 0
	}
	for _, app := range repo.db.table {
		byStatus[app.Status]++
	}
	return len(repo.db.table), byStatus, nil
}
