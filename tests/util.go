// Package testutil builds seeded EduMatch stores and API servers for tests.
package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

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
)

// Config is a TEST config without simulated latency.
func Config() *core.Config {
	return &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "EduMatch",
		SecretKey:        "test-secret",
		DefaultFromEmail: "noreply@localhost",
		Server: core.ServerConfig{
			DisableReqLogs:            true,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
		},
		Mock: core.MockConfig{BotReplyDelay: time.Millisecond},
	}
}

// Logger discards everything.
func Logger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
}

// SeededRepos returns in-memory repositories loaded with the demo dataset.
func SeededRepos(t *testing.T) *database.Repositories {
	repos := database.InMemory()
	if err := database.Seed(context.Background(), repos); err != nil {
		t.Fatalf("SeededRepos() failed: %v", err)
	}
	return repos
}

// API is a running test API over a seeded in-memory store.
type API struct {
	*httptest.Server
	Repos *database.Repositories
	Mail  *emailsvc.ConsoleService
}

func NewAPI(t *testing.T) *API {
	conf := Config()
	repos := SeededRepos(t)
	logger := Logger(conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(repos.Users, 0, false)
	oppSvc := opportunity.NewService(repos.Opportunities, 0)
	appSvc := application.NewService(application.Deps{
		Repo:          repos.Applications,
		Opportunities: repos.Opportunities,
		Users:         repos.Users,
		Scorer:        application.NewRandomScorer(1),
		Mail:          mailSvc,
		Logger:        logger,
	})
	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		ProfileSvc:     profile.NewService(repos.Profiles, 0),
		OpportunitySvc: oppSvc,
		ApplicationSvc: appSvc,
		ChatSvc:        chat.NewService(repos.Chat, 0, conf.Mock.BotReplyDelay, logger),
		AdminSvc:       admin.NewService(usrSvc, oppSvc, appSvc, 0),
	})

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &API{Server: ts, Repos: repos, Mail: mailSvc}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	role user.Role,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
