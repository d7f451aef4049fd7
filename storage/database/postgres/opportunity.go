package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/opportunity"
)

type opportunityRow struct {
	ID            string `db:"id"`
	Title         string `db:"title"`
	Description   string `db:"description"`
	Deadline      string `db:"deadline"`
	Category      string `db:"category"`
	ProfessorID   string `db:"professor_id"`
	ProfessorName string `db:"professor_name"`
}

func (r opportunityRow) toOpportunity() opportunity.Opportunity {
	return opportunity.Opportunity(r)
}

const opportunityColumns = "id, title, description, deadline, category, professor_id, professor_name"

type opportunityRepository struct {
	db *sqlx.DB
}

var _ opportunity.Repository = (*opportunityRepository)(nil)

func NewOpportunityRepository(db *sqlx.DB) opportunity.Repository {
	return &opportunityRepository{db: db}
}

func (repo *opportunityRepository) CreateOpportunity(ctx context.Context, o opportunity.Opportunity) (opportunity.Opportunity, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO opportunities (`+opportunityColumns+`)
		VALUES (:id, :title, :description, :deadline, :category, :professor_id, :professor_name)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description, deadline = EXCLUDED.deadline,
			category = EXCLUDED.category, professor_id = EXCLUDED.professor_id, professor_name = EXCLUDED.professor_name`,
		opportunityRow(o),
	)
	if err != nil {
		return opportunity.Opportunity{}, errors.Wrap(err, "inserting opportunity")
	}
	return o, nil
}

func (repo *opportunityRepository) QueryAllOpportunities(ctx context.Context) ([]opportunity.Opportunity, error) {
	var rows []opportunityRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+opportunityColumns+" FROM opportunities ORDER BY "+insertionOrder.String()); err != nil {
		return nil, errors.Wrap(err, "selecting opportunities")
	}
	opps := make([]opportunity.Opportunity, 0, len(rows))
	for _, r := range rows {
		opps = append(opps, r.toOpportunity())
	}
	return opps, nil
}

func (repo *opportunityRepository) GetOpportunityByID(ctx context.Context, id string) (opportunity.Opportunity, error) {
	var row opportunityRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+opportunityColumns+" FROM opportunities WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return opportunity.Opportunity{}, opportunity.ErrNotFound
		}
		return opportunity.Opportunity{}, errors.Wrap(err, "selecting opportunity")
	}
	return row.toOpportunity(), nil
}

func (repo *opportunityRepository) DeleteOpportunity(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM opportunities WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting opportunity")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return opportunity.ErrNotFound
	}
	return nil
}

func (repo *opportunityRepository) CountOpportunities(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM opportunities")
	return n, errors.Wrap(err, "counting opportunities")
}
