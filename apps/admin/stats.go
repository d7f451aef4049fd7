package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/user"
)

func (cli *commandLine) stats(outPath string) error {
	ctx := context.Background()
	st, err := cli.adminSvc.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "users:         %d\n", st.TotalUsers)
	for _, r := range user.Roles {
		fmt.Fprintf(cli.out, "  %-12s %d\n", r, st.UsersByRole[r])
	}
	fmt.Fprintf(cli.out, "opportunities: %d\n", st.TotalOpportunities)
	fmt.Fprintf(cli.out, "applications:  %d\n", st.TotalApplications)
	for _, s := range application.Statuses {
		fmt.Fprintf(cli.out, "  %-12s %d\n", s, st.ApplicationsByStatus[s])
	}

	if outPath == "" {
		return nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = cli.adminSvc.ExportStats(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "exported to %s\n", outPath)
	return nil
}
