package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/edumatch/client"
	"github.com/trezcool/edumatch/core/nav"
	"github.com/trezcool/edumatch/core/session"
	"github.com/trezcool/edumatch/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	mgr *session.Manager
	api *client.Client
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL - log in (the password is prompted)")
	fmt.Fprintln(cli.out, "  register -email EMAIL -name NAME -role student|professor|admin - create an account and log in")
	fmt.Fprintln(cli.out, "  logout - end the session")
	fmt.Fprintln(cli.out, "  whoami - print the session user")
	fmt.Fprintln(cli.out, "  menu - list the pages of the session user")
	fmt.Fprintln(cli.out, "  open PATH - open a page, e.g. /student/opportunities")
	cli.printActionsUsage()
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginCmd.SetOutput(cli.out)
	loginEmail := loginCmd.String("email", "", "The account email.")

	registerCmd := flag.NewFlagSet("register", flag.ContinueOnError)
	registerCmd.SetOutput(cli.out)
	registerEmail := registerCmd.String("email", "", "The account email.")
	registerName := registerCmd.String("name", "", "The display name.")
	registerRole := registerCmd.String("role", string(user.RoleStudent), "The account role.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		usr, err := cli.mgr.Login(ctx, *loginEmail, pwd)
		if err != nil {
			return err
		}
		return cli.land(ctx, usr)
	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *registerEmail == "" || *registerName == "" {
			registerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		usr, err := cli.mgr.Register(ctx, user.NewUser{
			Email:    *registerEmail,
			Password: pwd,
			Role:     user.Role(*registerRole),
			Name:     *registerName,
		})
		if err != nil {
			return err
		}
		return cli.land(ctx, usr)
	case "logout":
		if err := cli.mgr.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "logged out")
		return nil
	case "whoami":
		usr, err := cli.mgr.Whoami(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s <%s> (%s)\n", usr.Name, usr.Email, usr.Role.Label())
		return nil
	case "menu":
		usr, err := cli.mgr.Whoami(ctx)
		if err != nil {
			return err
		}
		for _, item := range nav.Menu(usr.Role) {
			fmt.Fprintf(cli.out, "%-26s %s\n", item.Path, item.Title)
		}
		return nil
	case "open":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.open(ctx, args[2])
	default:
		if act, ok := cli.actions()[args[1]]; ok {
			return act(ctx, args[2:])
		}
		cli.printUsage()
		return errHelp
	}
}

// land opens the home page of a freshly authenticated user.
func (cli *commandLine) land(ctx context.Context, usr user.User) error {
	fmt.Fprintf(cli.out, "welcome, %s\n", usr.Name)
	return cli.open(ctx, nav.DefaultHome(usr.Role))
}
