package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/admin"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/user"
	logsvc "github.com/trezcool/edumatch/services/logger"
	"github.com/trezcool/edumatch/storage/database"
	"github.com/trezcool/edumatch/storage/database/postgres"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// set up DB
	if conf.Database.Engine == core.EnginePostgres {
		errAndDie(postgres.CreateIfNotExist(conf))
	}
	repos, err := database.Open(context.Background(), conf)
	errAndDie(err)

	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(repos.Users, 0, conf.Mock.VerifyPasswords)
	oppSvc := opportunity.NewService(repos.Opportunities, 0)
	appSvc := application.NewService(application.Deps{
		Repo:          repos.Applications,
		Opportunities: repos.Opportunities,
		Users:         repos.Users,
		Logger:        logger,
	})

	// start CLI
	cli := commandLine{
		usrSvc:   usrSvc,
		adminSvc: admin.NewService(usrSvc, oppSvc, appSvc, 0),
		validate: validate,
		openDB: func() (*sql.DB, error) {
			if conf.Database.Engine != core.EnginePostgres {
				return nil, errors.Errorf("migrate needs the %s engine (got %q)", core.EnginePostgres, conf.Database.Engine)
			}
			db, err := postgres.Open(conf)
			if err != nil {
				return nil, err
			}
			return db.DB, nil
		},
		out: os.Stdout,
	}
	err = cli.run(os.Args)
	_ = repos.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
