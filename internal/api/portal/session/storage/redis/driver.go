package redis

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/redis/go-redis/v9"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/secret"
	"time"
)

var tokenLength = 32

const keyPrefix = "portal:"

// maxTxRetries limits how often an optimistic transaction is retried after a concurrent modification
const maxTxRetries = 8

// Driver represents the Redis session storage driver.
// Every session is stored as a JSON value expiring together with the session; a set per user keeps track of the
// session keys of that user.
type Driver struct {
	client *redis.Client
	now    func() time.Time
}

var _ session.Storage = (*Driver)(nil)

// New creates a new Redis session storage driver
func New(options *redis.Options) *Driver {
	return &Driver{
		client: redis.NewClient(options),
		now:    time.Now,
	}
}

// Initialize verifies the connection to the Redis server
func (driver *Driver) Initialize(ctx context.Context) error {
	return driver.client.Ping(ctx).Err()
}

// GetByRawToken retrieves a session by its raw (prior hashing) token
func (driver *Driver) GetByRawToken(ctx context.Context, rawToken string) (*session.Session, error) {
	raw, err := driver.client.Get(ctx, sessionKey(secret.Hash(rawToken))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	obj := new(session.Session)
	if err := json.Unmarshal(raw, obj); err != nil {
		return nil, err
	}
	if obj.IsExpired(driver.now()) {
		return nil, nil
	}
	return obj, nil
}

// Create creates a new session
func (driver *Driver) Create(ctx context.Context, create *session.Create) (string, error) {
	rawToken, token := secret.MustNewToken(tokenLength)
	ses := &session.Session{
		Token:       token,
		AccessToken: create.AccessToken,
		UserID:      create.UserID,
		Email:       create.Email,
		Roles:       create.Roles,
		Expires:     create.Expires,
	}
	raw, err := json.Marshal(ses)
	if err != nil {
		return "", err
	}

	ttl := time.Unix(ses.Expires, 0).Sub(driver.now())
	if ttl <= 0 {
		return "", errors.New("cannot create an already expired session")
	}

	// The set of a user's sessions has to live as long as the longest of these sessions.
	// Its TTL is only ever extended; a missing set or one without TTL reports a negative value.
	userSessions := userKey(ses.UserID)
	write := func(tx *redis.Tx) error {
		current, err := tx.PTTL(ctx, userSessions).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessionKey(token), raw, ttl)
			pipe.SAdd(ctx, userSessions, token)
			if current < ttl {
				pipe.PExpire(ctx, userSessions, ttl)
			}
			return nil
		})
		return err
	}
	for i := 0; i < maxTxRetries; i++ {
		err = driver.client.Watch(ctx, write, userSessions)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return "", err
	}
	return rawToken, nil
}

// TerminateByRawToken terminates a session by its raw (prior hashing) token
func (driver *Driver) TerminateByRawToken(ctx context.Context, rawToken string) error {
	token := secret.Hash(rawToken)
	ses, err := driver.GetByRawToken(ctx, rawToken)
	if err != nil {
		return err
	}
	_, err = driver.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(token))
		if ses != nil {
			pipe.SRem(ctx, userKey(ses.UserID), token)
		}
		return nil
	})
	return err
}

// TerminateByUserID terminates all sessions of a specific user ID
func (driver *Driver) TerminateByUserID(ctx context.Context, userID string) error {
	tokens, err := driver.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userKey(userID))
	return driver.client.Del(ctx, keys...).Err()
}

// TerminateExpired is a no-op as Redis expires session keys on its own
func (driver *Driver) TerminateExpired(_ context.Context) (int, error) {
	return 0, nil
}

// Close closes the Redis client
func (driver *Driver) Close() {
	_ = driver.client.Close()
}

func sessionKey(token string) string {
	return keyPrefix + "session:" + token
}

func userKey(userID string) string {
	return keyPrefix + "user_sessions:" + userID
}
