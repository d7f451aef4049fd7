package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
)

// action is a portal command acting on the API on behalf of the session user.
// Role checks are left to the API.
type action func(ctx context.Context, args []string) error

func (cli *commandLine) actions() map[string]action {
	return map[string]action{
		"apply":   cli.apply,
		"post":    cli.post,
		"delete":  cli.deleteOpportunity,
		"match":   cli.match,
		"status":  cli.setStatus,
		"profile": cli.saveProfile,
		"say":     cli.say,
		"history": cli.history,
	}
}

func (cli *commandLine) printActionsUsage() {
	fmt.Fprintln(cli.out, "  apply OPPORTUNITY_ID - apply to an opportunity (student)")
	fmt.Fprintln(cli.out, "  post -title T -description D -deadline YYYY-MM-DD -category C - post an opportunity (professor)")
	fmt.Fprintln(cli.out, "  delete OPPORTUNITY_ID - delete one of your opportunities (professor)")
	fmt.Fprintln(cli.out, "  match APPLICATION_ID - compute the AI match score (professor)")
	fmt.Fprintln(cli.out, "  status APPLICATION_ID pending|accepted|rejected - decide on an application (professor)")
	fmt.Fprintln(cli.out, "  profile -name N [-major M] [-gpa G] [-skills a,b] [-preferences P] - save your profile (student)")
	fmt.Fprintln(cli.out, "  say ROOM TEXT... - send a chat message")
	fmt.Fprintln(cli.out, "  history ROOM - print the messages of a chat room")
}

// oneArg returns the single positional argument of a command.
func (cli *commandLine) oneArg(args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		cli.printUsage()
		return "", errHelp
	}
	return args[0], nil
}

func (cli *commandLine) apply(ctx context.Context, args []string) error {
	id, err := cli.oneArg(args)
	if err != nil {
		return err
	}
	app, err := cli.api.Apply(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "applied to %s: application %s is %s\n", id, app.ID, app.Status)
	return nil
}

func (cli *commandLine) post(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("post", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	var no opportunity.NewOpportunity
	cmd.StringVar(&no.Title, "title", "", "The opportunity title.")
	cmd.StringVar(&no.Description, "description", "", "What the student will do.")
	cmd.StringVar(&no.Deadline, "deadline", "", "The application deadline (YYYY-MM-DD).")
	cmd.StringVar(&no.Category, "category", "", "The research field.")
	if err := cmd.Parse(args); err != nil {
		return errHelp
	}

	o, err := cli.api.CreateOpportunity(ctx, no)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "posted %s %q (deadline %s)\n", o.ID, o.Title, o.Deadline)
	return nil
}

func (cli *commandLine) deleteOpportunity(ctx context.Context, args []string) error {
	id, err := cli.oneArg(args)
	if err != nil {
		return err
	}
	if err := cli.api.DeleteOpportunity(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "deleted %s\n", id)
	return nil
}

func (cli *commandLine) match(ctx context.Context, args []string) error {
	id, err := cli.oneArg(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "analyzing...")
	app, err := cli.api.TriggerMatch(ctx, id)
	if err != nil {
		return err
	}
	if app.AIMatchScore != nil {
		fmt.Fprintf(cli.out, "%s matches at %d%%\n", app.StudentName, *app.AIMatchScore)
	}
	return nil
}

func (cli *commandLine) setStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		cli.printUsage()
		return errHelp
	}
	app, err := cli.api.SetApplicationStatus(ctx, args[0], application.Status(strings.ToLower(args[1])))
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "application %s of %s is now %s\n", app.ID, app.StudentName, app.Status)
	return nil
}

func (cli *commandLine) saveProfile(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("profile", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	var p profile.StudentProfile
	var skills string
	cmd.StringVar(&p.FullName, "name", "", "Your full name.")
	cmd.StringVar(&p.Major, "major", "", "Your major.")
	cmd.Float64Var(&p.GPA, "gpa", 0, "Your GPA, from 0 to 4.")
	cmd.StringVar(&skills, "skills", "", "Comma separated skills.")
	cmd.StringVar(&p.Preferences, "preferences", "", "The research you are looking for.")
	if err := cmd.Parse(args); err != nil {
		return errHelp
	}

	usr, err := cli.sessionUser(ctx, cli.mgr.State())
	if err != nil {
		return err
	}
	p.UserID = usr.ID
	if skills != "" {
		p.Skills = strings.Split(skills, ",")
	}

	saved, err := cli.api.SaveProfile(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "profile saved: %s, %s, gpa %.2f, skills %s\n",
		saved.FullName, saved.Major, saved.GPA, strings.Join(saved.Skills, ", "))
	return nil
}

func (cli *commandLine) say(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	msg, err := cli.api.SendChatMessage(ctx, args[0], chat.NewMessage{Content: strings.Join(args[1:], " ")})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "#%s %s: %s\n", msg.RoomID, msg.SenderID, msg.Content)
	return nil
}

func (cli *commandLine) history(ctx context.Context, args []string) error {
	room, err := cli.oneArg(args)
	if err != nil {
		return err
	}
	msgs, err := cli.api.ChatHistory(ctx, room)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		fmt.Fprintf(cli.out, "#%s %s: %s\n", m.RoomID, m.SenderID, m.Content)
	}
	return nil
}
