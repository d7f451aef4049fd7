package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/edumatch/apps/api/echo"
	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/admin"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
	emailsvc "github.com/trezcool/edumatch/services/email"
	logsvc "github.com/trezcool/edumatch/services/logger"
	"github.com/trezcool/edumatch/storage/database"
	"github.com/trezcool/edumatch/storage/database/postgres"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) *database.Repositories {
	setUp := func() (*database.Repositories, error) {
		if conf.Database.Engine == core.EnginePostgres {
			if err := postgres.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
		}
		return database.Open(context.Background(), conf)
	}

	repos, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return repos
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, os.Stdout, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	return validate, translator
}

func newUserService(conf *core.Config, repos *database.Repositories) user.Service {
	return user.NewService(repos.Users, core.Latency(conf.Mock.Latency), conf.Mock.VerifyPasswords)
}

func newProfileService(conf *core.Config, repos *database.Repositories) profile.Service {
	return profile.NewService(repos.Profiles, core.Latency(conf.Mock.Latency))
}

func newOpportunityService(conf *core.Config, repos *database.Repositories) opportunity.Service {
	return opportunity.NewService(repos.Opportunities, core.Latency(conf.Mock.Latency))
}

func newApplicationService(
	conf *core.Config,
	repos *database.Repositories,
	mailSvc core.EmailService,
	logger core.Logger,
) application.Service {
	return application.NewService(application.Deps{
		Repo:          repos.Applications,
		Opportunities: repos.Opportunities,
		Users:         repos.Users,
		Scorer:        application.NewScorer(conf.Matching.Scorer, repos.Profiles, repos.Opportunities),
		Mail:          mailSvc,
		Logger:        logger,
		Latency:       core.Latency(conf.Mock.Latency),
		MatchLatency:  core.Latency(conf.Mock.MatchLatency),
	})
}

func newChatService(conf *core.Config, repos *database.Repositories, logger core.Logger) chat.Service {
	return chat.NewService(repos.Chat, core.Latency(conf.Mock.Latency), conf.Mock.BotReplyDelay, logger)
}

func newAdminService(
	conf *core.Config,
	usrSvc user.Service,
	oppSvc opportunity.Service,
	appSvc application.Service,
) admin.Service {
	return admin.NewService(usrSvc, oppSvc, appSvc, core.Latency(conf.Mock.Latency))
}

type serverParams struct {
	dig.In

	Conf           *core.Config
	Logger         core.Logger
	Validate       *validator.Validate
	Translator     ut.Translator
	UserSvc        user.Service
	ProfileSvc     profile.Service
	OpportunitySvc opportunity.Service
	ApplicationSvc application.Service
	ChatSvc        chat.Service
	AdminSvc       admin.Service
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:           p.Conf,
		Logger:         p.Logger,
		Validate:       p.Validate,
		Translator:     p.Translator,
		UserSvc:        p.UserSvc,
		ProfileSvc:     p.ProfileSvc,
		OpportunitySvc: p.OpportunitySvc,
		ApplicationSvc: p.ApplicationSvc,
		ChatSvc:        p.ChatSvc,
		AdminSvc:       p.AdminSvc,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(newValidator))
	must(c.Provide(newUserService))
	must(c.Provide(newProfileService))
	must(c.Provide(newOpportunityService))
	must(c.Provide(newApplicationService))
	must(c.Provide(newChatService))
	must(c.Provide(newAdminService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
