package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/pkg/redis"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository keeps login sessions in redis under session:<token>. The
// tokens of each user are also tracked in a set so they can be revoked
// together.
type SessionRepository struct {
	redis redis.RedisAdapter
}

func NewSessionRepository(r redis.RedisAdapter) *SessionRepository {
	return &SessionRepository{redis: r}
}

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID int64) string {
	return "user_sessions:" + strconv.FormatInt(userID, 10)
}

func (r *SessionRepository) Save(ctx context.Context, session *model.Session, ttl time.Duration) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := r.redis.Set(ctx, sessionKey(session.Token), b, ttl); err != nil {
		return err
	}
	if err := r.redis.SAdd(ctx, userSessionsKey(session.UserID), session.Token); err != nil {
		return err
	}
	return r.redis.Expire(ctx, userSessionsKey(session.UserID), ttl)
}

func (r *SessionRepository) Get(ctx context.Context, token string) (*model.Session, error) {
	b, err := r.redis.Get(ctx, sessionKey(token))
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(b, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	session, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	if err := r.redis.Del(ctx, sessionKey(token)); err != nil {
		return err
	}
	return r.redis.SRem(ctx, userSessionsKey(session.UserID), token)
}

// DeleteForUser revokes every session of the user.
func (r *SessionRepository) DeleteForUser(ctx context.Context, userID int64) error {
	tokens, err := r.redis.SMembers(ctx, userSessionsKey(userID))
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKey(t))
	}
	keys = append(keys, userSessionsKey(userID))
	return r.redis.Del(ctx, keys...)
}
