package founding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "tandem/pkg/domain"
)

const (
	tokenPoolKey = "founding:tokens"
	grantedKey   = "founding:granted"
	statePrefix  = "founding:state:"
)

// RedisStore keeps the token pool as a set, the grant counter as a plain
// key, and access states as JSON blobs. The consume decision runs as a Lua
// script so pool membership and the cap are checked in one atomic step.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// consumeScript: KEYS[1] token set, KEYS[2] granted counter, ARGV[1] token,
// ARGV[2] cap. Returns 1 on successful consumption, 0 otherwise.
var consumeScript = redis.NewScript(`
local granted = tonumber(redis.call('GET', KEYS[2]) or '0')
if granted >= tonumber(ARGV[2]) then
  return 0
end
return redis.call('SREM', KEYS[1], ARGV[1])
`)

func (s *RedisStore) SeedTokens(ctx context.Context, tokens ...string) error {
	if len(tokens) == 0 {
		return nil
	}
	members := make([]interface{}, len(tokens))
	for i, t := range tokens {
		members[i] = t
	}
	if err := s.client.SAdd(ctx, tokenPoolKey, members...).Err(); err != nil {
		return fmt.Errorf("seed tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) ConsumeToken(ctx context.Context, token string, cap int) (bool, error) {
	res, err := consumeScript.Run(ctx, s.client,
		[]string{tokenPoolKey, grantedKey},
		token, cap,
	).Int()
	if err != nil {
		return false, fmt.Errorf("consume token: %w", err)
	}
	return res == 1, nil
}

func (s *RedisStore) IncrementGranted(ctx context.Context) (int, error) {
	n, err := s.client.Incr(ctx, grantedKey).Result()
	if err != nil {
		return 0, fmt.Errorf("increment granted: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) GrantedCount(ctx context.Context) (int, error) {
	n, err := s.client.Get(ctx, grantedKey).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("granted count: %w", err)
	}
	return n, nil
}

func (s *RedisStore) State(ctx context.Context, couple id.CoupleID) (AccessState, error) {
	val, err := s.client.Get(ctx, statePrefix+couple.String()).Bytes()
	if err == redis.Nil {
		return AccessState{}, nil
	}
	if err != nil {
		return AccessState{}, fmt.Errorf("get access state: %w", err)
	}
	var state AccessState
	if err := json.Unmarshal(val, &state); err != nil {
		return AccessState{}, fmt.Errorf("decode access state: %w", err)
	}
	return state, nil
}

func (s *RedisStore) SaveState(ctx context.Context, couple id.CoupleID, state AccessState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode access state: %w", err)
	}
	if err := s.client.Set(ctx, statePrefix+couple.String(), payload, 0).Err(); err != nil {
		return fmt.Errorf("save access state: %w", err)
	}
	return nil
}
