// Package admin computes the platform statistics shown on the admin dashboard.
package admin

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/user"
)

type Stats struct {
	TotalUsers           int                        `json:"totalUsers"`
	TotalOpportunities   int                        `json:"totalOpportunities"`
	TotalApplications    int                        `json:"totalApplications"`
	UsersByRole          map[user.Role]int          `json:"usersByRole"`
	ApplicationsByStatus map[application.Status]int `json:"applicationsByStatus"`
}

type (
	Service interface {
		Stats(ctx context.Context) (Stats, error)
		// ExportStats writes the stats and the user list as an xlsx workbook.
		ExportStats(ctx context.Context, w io.Writer) error
	}

	service struct {
		users         user.Service
		opportunities opportunity.Service
		applications  application.Service
		latency       core.Latency
	}
)

var _ Service = (*service)(nil)

func NewService(users user.Service, opps opportunity.Service, apps application.Service, latency core.Latency) Service {
	return &service{
		users:         users,
		opportunities: opps,
		applications:  apps,
		latency:       latency,
	}
}

func (svc *service) Stats(ctx context.Context) (Stats, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return Stats{}, err
	}
	var (
		st  Stats
		err error
	)
	if st.TotalUsers, st.UsersByRole, err = svc.users.Count(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting users")
	}
	if st.TotalOpportunities, err = svc.opportunities.Count(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting opportunities")
	}
	if st.TotalApplications, st.ApplicationsByStatus, err = svc.applications.Count(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting applications")
	}
	return st, nil
}

const (
	statsSheet = "Stats"
	usersSheet = "Users"
)

func (svc *service) ExportStats(ctx context.Context, w io.Writer) error {
	st, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	users, err := svc.users.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total users", st.TotalUsers},
		{"Total opportunities", st.TotalOpportunities},
		{"Total applications", st.TotalApplications},
	}
	for _, r := range user.Roles {
		rows = append(rows, []interface{}{r.Label() + "s", st.UsersByRole[r]})
	}
	for _, s := range application.Statuses {
		rows = append(rows, []interface{}{"Applications " + string(s), st.ApplicationsByStatus[s]})
	}
	if err := writeRows(f, statsSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(usersSheet); err != nil {
		return errors.Wrap(err, "creating users sheet")
	}
	rows = [][]interface{}{{"ID", "Name", "Email", "Role", "Created at"}}
	for _, u := range users {
		rows = append(rows, []interface{}{u.ID, u.Name, u.Email, string(u.Role), u.CreatedAt.Format(time.RFC3339)})
	}
	if err := writeRows(f, usersSheet, rows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s!%s", sheet, cell)
		}
	}
	return nil
}
