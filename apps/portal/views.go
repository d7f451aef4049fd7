package main

import (
	"context"
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/client"
	"github.com/trezcool/edumatch/core/nav"
	"github.com/trezcool/edumatch/core/session"
	"github.com/trezcool/edumatch/core/user"
)

// open guards path against the session, follows the redirect if any, then renders the page.
func (cli *commandLine) open(ctx context.Context, path string) error {
	st := cli.mgr.State()
	decision, err := nav.Navigate(st.Authenticated, st.User, path)
	if err != nil {
		return err
	}
	if decision.Outcome != nav.Render {
		fmt.Fprintf(cli.out, "-> %s\n", decision.Target)
		decision, err = nav.Navigate(st.Authenticated, st.User, decision.Target)
		if err != nil {
			return err
		}
	}
	return cli.render(ctx, st, decision.Target)
}

func (cli *commandLine) render(ctx context.Context, st session.State, path string) error {
	route, _ := nav.Lookup(path)
	fmt.Fprintf(cli.out, "== %s ==\n", route.Title)

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	switch route.Path {
	case nav.PathLogin:
		fmt.Fprintln(tw, "log in with: portal login -email EMAIL")
	case nav.PathRegister:
		fmt.Fprintln(tw, "sign up with: portal register -email EMAIL -name NAME -role ROLE")
	case nav.PathStudentOpportunities:
		opps, err := cli.api.Opportunities(ctx, "")
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDEADLINE\tPROFESSOR")
		for _, o := range opps {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.Title, o.Category, o.Deadline, o.ProfessorName)
		}
	case nav.PathStudentProfile:
		usr, err := cli.sessionUser(ctx, st)
		if err != nil {
			return err
		}
		p, err := cli.api.Profile(ctx, usr.ID)
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			fmt.Fprintln(tw, "no profile yet")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "Name\t%s\nMajor\t%s\nGPA\t%.2f\nSkills\t%v\nPreferences\t%s\n",
			p.FullName, p.Major, p.GPA, p.Skills, p.Preferences)
	case nav.PathProfessorOpportunities:
		opps, err := cli.api.MyOpportunities(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDEADLINE")
		for _, o := range opps {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.ID, o.Title, o.Category, o.Deadline)
		}
	case nav.PathProfessorApplications:
		apps, err := cli.api.Applications(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tOPPORTUNITY\tSTUDENT\tSTATUS\tMATCH")
		for _, a := range apps {
			score := "-"
			if a.AIMatchScore != nil {
				score = fmt.Sprintf("%d%%", *a.AIMatchScore)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.OpportunityID, a.StudentName, a.Status, score)
		}
	case nav.PathAdminDashboard:
		stats, err := cli.api.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "Total users\t%d\nTotal opportunities\t%d\nTotal applications\t%d\n",
			stats.TotalUsers, stats.TotalOpportunities, stats.TotalApplications)
	case nav.PathChat:
		rooms, err := cli.api.ChatRooms(ctx)
		if err != nil {
			return err
		}
		for _, r := range rooms {
			fmt.Fprintf(tw, "#%s\t%s\n", r.ID, r.Name)
		}
	}
	return nil
}

// sessionUser returns the held user, resolving it when the session was restored from a token.
func (cli *commandLine) sessionUser(ctx context.Context, st session.State) (user.User, error) {
	if st.User != nil {
		return *st.User, nil
	}
	return cli.mgr.Whoami(ctx)
}
