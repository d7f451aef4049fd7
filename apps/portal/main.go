package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/client"
	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/session"
	logsvc "github.com/trezcool/edumatch/services/logger"
	"github.com/trezcool/edumatch/storage/kv/redisstore"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "PORTAL : ", log.LstdFlags), conf)

	if err := run(context.Background(), conf, os.Args, os.Stdout); err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}

// run owns every resource of the process; they are released before main exits.
func run(ctx context.Context, conf *core.Config, args []string, out io.Writer) error {
	store, closeStore, err := openTokenStore(ctx, conf)
	if err != nil {
		return err
	}
	defer closeStore()

	api := client.New(conf.Portal.APIBaseURL, store, nil)
	mgr := session.NewManager(api, store)
	if _, err := mgr.Restore(ctx); err != nil {
		return errors.Wrap(err, "restoring session")
	}

	cli := commandLine{mgr: mgr, api: api, out: out}
	return cli.run(ctx, args)
}

// openTokenStore returns the durable token storage: Redis when configured, a file otherwise.
func openTokenStore(ctx context.Context, conf *core.Config) (session.TokenStore, func(), error) {
	if conf.Redis.URL != "" {
		rs, err := redisstore.Open(ctx, conf.Redis.URL, "portal")
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening redis token store")
		}
		return rs, func() { _ = rs.Close() }, nil
	}
	path := conf.Portal.TokenFile
	if path == "" {
		path = session.DefaultTokenFile()
	}
	return session.NewFileStore(path), func() {}, nil
}
