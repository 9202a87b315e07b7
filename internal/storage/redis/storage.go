package redis

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSnapshot(ctx context.Context, id model.SessionID, snap *model.Snapshot) error {
	data, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(id), data, s.cfg.SnapshotTTL)
	pipe.SAdd(ctx, sessionsIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) LoadSnapshot(ctx context.Context, id model.SessionID) (*model.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}
	return storage.Decode(data)
}

func (s *Storage) DeleteSnapshot(ctx context.Context, id model.SessionID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, snapshotKey(id))
	pipe.SRem(ctx, sessionsIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Sessions lists ids from the index, pruning entries whose snapshot expired
func (s *Storage) Sessions(ctx context.Context) ([]model.SessionID, error) {
	members, err := s.client.SMembers(ctx, sessionsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]model.SessionID, 0, len(members))
	var stale []any
	for _, m := range members {
		n, err := s.client.Exists(ctx, snapshotKey(model.SessionID(m))).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			stale = append(stale, m)
			continue
		}
		ids = append(ids, model.SessionID(m))
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, sessionsIndexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}

	slices.Sort(ids)
	return ids, nil
}
