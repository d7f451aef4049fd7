package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/application"
)

type applicationRow struct {
	ID            string        `db:"id"`
	OpportunityID string        `db:"opportunity_id"`
	StudentID     string        `db:"student_id"`
	StudentName   string        `db:"student_name"`
	Status        string        `db:"status"`
	AIMatchScore  sql.NullInt64 `db:"ai_match_score"`
	CreatedAt     time.Time     `db:"created_at"`
}

func newApplicationRow(app application.Application) applicationRow {
	row := applicationRow{
		ID:            app.ID,
		OpportunityID: app.OpportunityID,
		StudentID:     app.StudentID,
		StudentName:   app.StudentName,
		Status:        string(app.Status),
		CreatedAt:     app.CreatedAt,
	}
	if app.AIMatchScore != nil {
		row.AIMatchScore = sql.NullInt64{Int64: int64(*app.AIMatchScore), Valid: true}
	}
	return row
}

func (r applicationRow) toApplication() application.Application {
	app := application.Application{
		ID:            r.ID,
		OpportunityID: r.OpportunityID,
		StudentID:     r.StudentID,
		StudentName:   r.StudentName,
		Status:        application.Status(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
	}
	if r.AIMatchScore.Valid {
		score := int(r.AIMatchScore.Int64)
		app.AIMatchScore = &score
	}
	return app
}

const applicationColumns = "id, opportunity_id, student_id, student_name, status, ai_match_score, created_at"

type applicationRepository struct {
	db *sqlx.DB
}

var _ application.Repository = (*applicationRepository)(nil)

func NewApplicationRepository(db *sqlx.DB) application.Repository {
	return &applicationRepository{db: db}
}

func (repo *applicationRepository) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES (:id, :opportunity_id, :student_id, :student_name, :status, :ai_match_score, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			opportunity_id = EXCLUDED.opportunity_id, student_id = EXCLUDED.student_id,
			student_name = EXCLUDED.student_name, status = EXCLUDED.status,
			ai_match_score = EXCLUDED.ai_match_score, created_at = EXCLUDED.created_at`,
		newApplicationRow(app),
	)
	if err != nil {
		return application.Application{}, errors.Wrap(err, "inserting application")
	}
	return app, nil
}

func (repo *applicationRepository) QueryAllApplications(ctx context.Context) ([]application.Application, error) {
	var rows []applicationRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+applicationColumns+" FROM applications ORDER BY "+insertionOrder.String()); err != nil {
		return nil, errors.Wrap(err, "selecting applications")
	}
	apps := make([]application.Application, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, r.toApplication())
	}
	return apps, nil
}

func (repo *applicationRepository) GetApplicationByID(ctx context.Context, id string) (application.Application, error) {
	var row applicationRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+applicationColumns+" FROM applications WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, errors.Wrap(err, "selecting application")
	}
	return row.toApplication(), nil
}

func (repo *applicationRepository) UpdateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	res, err := repo.db.NamedExecContext(ctx,
		"UPDATE applications SET status = :status, ai_match_score = :ai_match_score WHERE id = :id",
		newApplicationRow(app),
	)
	if err != nil {
		return application.Application{}, errors.Wrap(err, "updating application")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return application.Application{}, application.ErrNotFound
	}
	return app, nil
}

func (repo *applicationRepository) CountApplications(ctx context.Context) (int, map[application.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := repo.db.SelectContext(ctx, &rows, "SELECT status, COUNT(*) AS count FROM applications GROUP BY status"); err != nil {
		return 0, nil, errors.Wrap(err, "counting applications")
	}
	byStatus := make(map[application.Status]int, len(application.Statuses))
	for _, s := range application.Statuses {
		byStatus[s] = 0
	}
	var total int
	for _, r := range rows {
		byStatus[application.Status(r.Status)] = r.Count
		total += r.Count
	}
	return total, byStatus, nil
}
