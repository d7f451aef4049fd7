// Package database opens the repositories of the configured storage engine.
package database

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
	"github.com/trezcool/edumatch/storage/database/inmem"
	"github.com/trezcool/edumatch/storage/database/postgres"
)

type Repositories struct {
	Users         user.Repository
	Profiles      profile.Repository
	Opportunities opportunity.Repository
	Applications  application.Repository
	Chat          chat.Repository

	closer io.Closer
}

func (r *Repositories) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// InMemory returns repositories over a fresh in-memory store.
func InMemory() *Repositories {
	db := inmem.Open()
	return &Repositories{
		Users:         db.Users(),
		Profiles:      db.Profiles(),
		Opportunities: db.Opportunities(),
		Applications:  db.Applications(),
		Chat:          db.Chat(),
	}
}

// Open opens the repositories of conf.Database.Engine and seeds an empty store when enabled.
func Open(ctx context.Context, conf *core.Config) (*Repositories, error) {
	var repos *Repositories

	switch conf.Database.Engine {
	case core.EngineInMemory, "":
		repos = InMemory()
	case core.EnginePostgres:
		db, err := postgres.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = postgres.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		repos = &Repositories{
			Users:         postgres.NewUserRepository(db),
			Profiles:      postgres.NewProfileRepository(db),
			Opportunities: postgres.NewOpportunityRepository(db),
			Applications:  postgres.NewApplicationRepository(db),
			Chat:          postgres.NewChatRepository(db),
			closer:        db,
		}
	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}

	if conf.Database.Seed {
		n, _, err := repos.Users.CountUsers(ctx)
		if err != nil {
			_ = repos.Close()
			return nil, errors.Wrap(err, "counting users")
		}
		if n == 0 {
			if err = Seed(ctx, repos); err != nil {
				_ = repos.Close()
				return nil, err
			}
		}
	}
	return repos, nil
}
