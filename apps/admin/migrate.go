package main

import (
	"github.com/trezcool/goose"

	"github.com/trezcool/edumatch/storage/database/postgres"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], db, postgres.MigrationsFS, postgres.MigrationsDir, arguments...)
}
