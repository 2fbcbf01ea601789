package cart

import (
	"context"
	"encoding/json"
	"time"

	"voltwear/models"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 30 * 24 * time.Hour

// SessionStore keeps the session-scoped snapshot that survives page
// reloads, including anonymous carts that have never been synced upstream.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*models.CartSession, error)
	Save(ctx context.Context, sess *models.CartSession) error
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	conn *redis.Client
}

func NewRedisStore(conn *redis.Client) *RedisStore {
	return &RedisStore{conn: conn}
}

func sessionKey(sessionID string) string {
	return "cart:session:" + sessionID
}

// Load returns nil without error when no snapshot exists yet.
func (r *RedisStore) Load(ctx context.Context, sessionID string) (*models.CartSession, error) {
	raw, err := r.conn.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess models.CartSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *RedisStore) Save(ctx context.Context, sess *models.CartSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.conn.Set(ctx, sessionKey(sess.SessionID), raw, sessionTTL).Err()
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.conn.Del(ctx, sessionKey(sessionID)).Err()
}
