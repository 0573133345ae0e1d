package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/park285/cheese-fics/internal/fics/record"
)

const (
	defaultTTL        = 24 * time.Hour
	defaultTailLength = 200
)

// RedisArchive keeps recent finished games and conversation tails.
type RedisArchive struct {
	rdb     *redis.Client
	ttl     time.Duration
	tailLen int64
}

type RedisOption func(*RedisArchive)

func WithTTL(d time.Duration) RedisOption {
	return func(a *RedisArchive) {
		if d > 0 {
			a.ttl = d
		}
	}
}

// WithTailLength bounds every conversation list.
func WithTailLength(n int) RedisOption {
	return func(a *RedisArchive) {
		if n > 0 {
			a.tailLen = int64(n)
		}
	}
}

func NewRedisArchive(rdb *redis.Client, opts ...RedisOption) *RedisArchive {
	a := &RedisArchive{rdb: rdb, ttl: defaultTTL, tailLen: defaultTailLength}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (a *RedisArchive) keyGame(id uuid.UUID) string      { return "fics:game:" + id.String() }
func (a *RedisArchive) keyPlayer(handle string) string   { return "fics:player:" + strings.ToLower(strings.TrimSpace(handle)) }
func (a *RedisArchive) keyRecent() string                { return "fics:games:recent" }
func (a *RedisArchive) keyConversation(id string) string { return "fics:conv:" + strings.ToLower(strings.TrimSpace(id)) }

// SaveGame stores the record and indexes it by both players.
func (a *RedisArchive) SaveGame(ctx context.Context, r *Record) error {
	if a == nil || a.rdb == nil || r == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	id := r.ID.String()
	pipe := a.rdb.TxPipeline()
	pipe.Set(ctx, a.keyGame(r.ID), raw, a.ttl)
	for _, h := range []string{r.White, r.Black} {
		if strings.TrimSpace(h) == "" {
			continue
		}
		pipe.SAdd(ctx, a.keyPlayer(h), id)
		pipe.Expire(ctx, a.keyPlayer(h), a.ttl)
	}
	pipe.ZAdd(ctx, a.keyRecent(), redis.Z{Score: float64(r.EndedAt.UnixMilli()), Member: id})
	pipe.Expire(ctx, a.keyRecent(), a.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// LoadGame returns nil without error when the record expired or never existed.
func (a *RedisArchive) LoadGame(ctx context.Context, id uuid.UUID) (*Record, error) {
	raw, err := a.rdb.Get(ctx, a.keyGame(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &r, nil
}

// GamesByPlayer lists archived game ids of a handle, case-insensitively.
func (a *RedisArchive) GamesByPlayer(ctx context.Context, handle string) ([]uuid.UUID, error) {
	members, err := a.rdb.SMembers(ctx, a.keyPlayer(handle)).Result()
	if err != nil {
		return nil, err
	}
	return parseIDs(members), nil
}

// RecentGames lists up to n ids, newest first.
func (a *RedisArchive) RecentGames(ctx context.Context, n int) ([]uuid.UUID, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := a.rdb.ZRevRange(ctx, a.keyRecent(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	return parseIDs(members), nil
}

// AppendCommunication pushes a line onto its conversation tail.
func (a *RedisArchive) AppendCommunication(ctx context.Context, c record.Communication) error {
	if a == nil || a.rdb == nil || strings.TrimSpace(c.ID) == "" {
		return nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal communication: %w", err)
	}
	key := a.keyConversation(c.ID)
	pipe := a.rdb.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.LTrim(ctx, key, -a.tailLen, -1)
	pipe.Expire(ctx, key, a.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append communication: %w", err)
	}
	return nil
}

// ConversationTail returns the stored lines of a conversation, oldest first.
func (a *RedisArchive) ConversationTail(ctx context.Context, id string) ([]record.Communication, error) {
	raws, err := a.rdb.LRange(ctx, a.keyConversation(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]record.Communication, 0, len(raws))
	for _, raw := range raws {
		var c record.Communication
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func parseIDs(members []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if id, err := uuid.Parse(m); err == nil {
			out = append(out, id)
		}
	}
	return out
}
