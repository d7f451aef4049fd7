// Package redisstore keeps the session token in Redis.
package redisstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/edumatch/core/session"
)

const keyPrefix = "edumatch:"

type Store struct {
	client *redis.Client
	key    string
}

var _ session.TokenStore = (*Store)(nil)

// New stores the token under "edumatch:<namespace>:token", or "edumatch:token" when namespace is empty.
func New(client *redis.Client, namespace string) *Store {
	key := keyPrefix + session.TokenKey
	if namespace != "" {
		key = keyPrefix + namespace + ":" + session.TokenKey
	}
	return &Store{client: client, key: key}
}

// Open connects to the redis server at url (redis://[user:pass@]host:port/db) and pings it.
func Open(ctx context.Context, url, namespace string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return New(client, namespace), nil
}

func (s *Store) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", session.ErrNoToken
		}
		return "", errors.Wrap(err, "getting token")
	}
	if token == "" {
		return "", session.ErrNoToken
	}
	return token, nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	return errors.Wrap(s.client.Set(ctx, s.key, token, 0).Err(), "setting token")
}

func (s *Store) Delete(ctx context.Context) error {
	return errors.Wrap(s.client.Del(ctx, s.key).Err(), "deleting token")
}

func (s *Store) Close() error {
	return s.client.Close()
}
