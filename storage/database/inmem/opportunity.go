package inmem

import (
	"context"

	"github.com/trezcool/edumatch/core/opportunity"
)

type opportunityRepository struct {
	db *opportunityTable
}

var _ opportunity.Repository = (*opportunityRepository)(nil)

func (repo *opportunityRepository) CreateOpportunity(_ context.Context, o opportunity.Opportunity) (opportunity.Opportunity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[o.ID]; !ok {
		repo.db.order = append(repo.db.order, o.ID)
	}
	repo.db.table[o.ID] = &o
	return o, nil
}

func (repo *opportunityRepository) QueryAllOpportunities(context.Context) ([]opportunity.Opportunity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	opps := make([]opportunity.Opportunity, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		opps = append(opps, *repo.db.table[id])
	}
	return opps, nil
}

func (repo *opportunityRepository) GetOpportunityByID(_ context.Context, id string) (opportunity.Opportunity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.table[id]; ok {
		return *o, nil
	}
	return opportunity.Opportunity{}, opportunity.ErrNotFound
}

func (repo *opportunityRepository) DeleteOpportunity(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return opportunity.ErrNotFound
	}
	delete(repo.db.table, id)
	for i, oid := range repo.db.order {
		if oid == id {
			repo.db.order = append(repo.db.order[:i], repo.db.order[i+1:]...)
			break
		}
	}
	return nil
}

func (repo *opportunityRepository) CountOpportunities(context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}
