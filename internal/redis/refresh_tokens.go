package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

const (
	sessionPrefix     = "session:"
	userSessionPrefix = "user_sessions:"
)

// RefreshTokenRepository keeps refresh sessions as keys expiring after ttl.
type RefreshTokenRepository struct {
	pool   *redis.Pool
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewRefreshTokenRepository(pool *redis.Pool, ttl time.Duration, logger *zap.SugaredLogger) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		pool:   pool,
		ttl:    ttl,
		logger: logger,
	}
}

// Add stores a new session, returning model.ErrAlreadyExists if the token is taken.
func (r *RefreshTokenRepository) Add(ctx context.Context, session string, id int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get conn: %w", err)
	}
	defer conn.Close()

	return r.add(conn, session, id)
}

func (r *RefreshTokenRepository) Get(ctx context.Context, session string) (int64, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("get conn: %w", err)
	}
	defer conn.Close()

	return get(conn, session)
}

// Refresh replaces the old session with a new one for the same user.
func (r *RefreshTokenRepository) Refresh(ctx context.Context, old, new string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get conn: %w", err)
	}
	defer conn.Close()

	id, err := get(conn, old)
	if err != nil {
		return err
	}

	if err := r.add(conn, new, id); err != nil {
		return err
	}

	return remove(conn, old, id)
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, session string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get conn: %w", err)
	}
	defer conn.Close()

	id, err := get(conn, session)
	if err != nil {
		return err
	}

	return remove(conn, session, id)
}

// DeleteByUserID drops every session of the user.
func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, id int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get conn: %w", err)
	}
	defer conn.Close()

	sessions, err := redis.Strings(conn.Do("SMEMBERS", userKey(id)))
	if err != nil {
		return fmt.Errorf("SMEMBERS: %w", err)
	}

	for _, s := range sessions {
		if _, err := conn.Do("DEL", sessionPrefix+s); err != nil {
			return fmt.Errorf("DEL: %w", err)
		}
	}

	if _, err := conn.Do("DEL", userKey(id)); err != nil {
		return fmt.Errorf("DEL: %w", err)
	}

	r.logger.Debugw("deleted user sessions", "user_id", id, "count", len(sessions))

	return nil
}

func (r *RefreshTokenRepository) add(conn redis.Conn, session string, id int64) error {
	reply, err := redis.String(conn.Do("SET", sessionPrefix+session, id, "PX", r.ttl.Milliseconds(), "NX"))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("SET: %w", err)
	}
	if reply != "OK" {
		return fmt.Errorf("SET: unexpected reply %q", reply)
	}

	if _, err := conn.Do("SADD", userKey(id), session); err != nil {
		return fmt.Errorf("SADD: %w", err)
	}

	return nil
}

func get(conn redis.Conn, session string) (int64, error) {
	id, err := redis.Int64(conn.Do("GET", sessionPrefix+session))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return 0, model.ErrNoRecord
		}
		return 0, fmt.Errorf("GET: %w", err)
	}

	return id, nil
}

func remove(conn redis.Conn, session string, id int64) error {
	if _, err := conn.Do("DEL", sessionPrefix+session); err != nil {
		return fmt.Errorf("DEL: %w", err)
	}

	if _, err := conn.Do("SREM", userKey(id), session); err != nil {
		return fmt.Errorf("SREM: %w", err)
	}

	return nil
}

func userKey(id int64) string {
	return fmt.Sprintf("%v%v", userSessionPrefix, id)
}
