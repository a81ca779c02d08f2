package videorepo

import (
	"context"
	"errors"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/videorepo"
)

// DefaultKeyPrefix namespaces the per-muscle sets.
const DefaultKeyPrefix = "workout:videos:"

// maxReplaceRetries bounds optimistic retries when a concurrent writer touches the set.
const maxReplaceRetries = 5

// Repo is a Redis implementation of videorepo.Repository. Each muscle is one SET.
type Repo struct {
	client *goredis.Client
	prefix string
}

func NewRepo(client *goredis.Client, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{client: client, prefix: prefix}
}

func (r *Repo) key(m domain.Muscle) string {
	return r.prefix + string(m)
}

func (r *Repo) List(ctx context.Context, muscle domain.Muscle) ([]string, error) {
	links, err := r.client.SMembers(ctx, r.key(muscle)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(links)
	return links, nil
}

func (r *Repo) Add(ctx context.Context, muscle domain.Muscle, link string) error {
	return r.client.SAdd(ctx, r.key(muscle), link).Err()
}

func (r *Repo) Remove(ctx context.Context, muscle domain.Muscle, link string) error {
	n, err := r.client.SRem(ctx, r.key(muscle), link).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return videorepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Replace(ctx context.Context, muscle domain.Muscle, oldLink, newLink string) error {
	key := r.key(muscle)
	txf := func(tx *goredis.Tx) error {
		ok, err := tx.SIsMember(ctx, key, oldLink).Result()
		if err != nil {
			return err
		}
		if !ok {
			return videorepo.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.SRem(ctx, key, oldLink)
			p.SAdd(ctx, key, newLink)
			return nil
		})
		return err
	}

	for i := 0; i < maxReplaceRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return goredis.TxFailedErr
}
