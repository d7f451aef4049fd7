package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/edumatch/core/admin"
	"github.com/trezcool/edumatch/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc   user.Service
	adminSvc admin.Service
	validate *validator.Validate
	openDB   func() (*sql.DB, error) // for migrations
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME [-role student|professor|admin] - create a user")
	fmt.Fprintln(cli.out, "  stats [-o FILE.xlsx] - print the platform stats, optionally exporting them")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run goose migrations on the postgres store")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's display name.")
	addUserRole := addUserCmd.String("role", string(user.RoleAdmin), "The user's role.")

	statsCmd := flag.NewFlagSet("stats", flag.ContinueOnError)
	statsCmd.SetOutput(cli.out)
	statsOut := statsCmd.String("o", "", "Export the stats to this xlsx file.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserEmail, *addUserName, *addUserRole, string(pwd))
	case "stats":
		if err := statsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.stats(*statsOut)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
