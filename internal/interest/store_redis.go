package interest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	id "tandem/pkg/domain"
)

// RedisStore keeps each couple's ledger in a hash keyed by candidate. The
// toggle/replace/cap decision runs as a Lua script so check-then-mutate is
// atomic on the server.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func ledgerKey(couple id.CoupleID) string {
	return "interest:" + couple.String()
}

// expressScript implements the store contract server-side:
// KEYS[1] ledger hash, ARGV[1] candidate, ARGV[2] intent, ARGV[3] limit,
// ARGV[4] expressed-at (unix nanos). Returns "retracted", "accepted", or
// "cap_reached".
var expressScript = redis.NewScript(`
local existing = redis.call('HGET', KEYS[1], ARGV[1])
if existing then
  local sep = string.find(existing, '|')
  local tag = string.sub(existing, 1, sep - 1)
  if tag == ARGV[2] then
    redis.call('HDEL', KEYS[1], ARGV[1])
    return 'retracted'
  end
  redis.call('HSET', KEYS[1], ARGV[1], ARGV[2] .. '|' .. ARGV[4])
  return 'accepted'
end
if redis.call('HLEN', KEYS[1]) >= tonumber(ARGV[3]) then
  return 'cap_reached'
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2] .. '|' .. ARGV[4])
return 'accepted'
`)

func (s *RedisStore) Express(ctx context.Context, couple, candidate id.CoupleID, intent id.Intent, limit int) (Outcome, error) {
	res, err := expressScript.Run(ctx, s.client,
		[]string{ledgerKey(couple)},
		candidate.String(), intent.String(), limit, time.Now().UnixNano(),
	).Text()
	if err != nil {
		return "", fmt.Errorf("express intent: %w", err)
	}
	return Outcome(res), nil
}

func (s *RedisStore) Get(ctx context.Context, couple, candidate id.CoupleID) (*Record, error) {
	val, err := s.client.HGet(ctx, ledgerKey(couple), candidate.String()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	rec, err := parseEntry(couple, candidate, val)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) List(ctx context.Context, couple id.CoupleID) ([]Record, error) {
	vals, err := s.client.HGetAll(ctx, ledgerKey(couple)).Result()
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	out := make([]Record, 0, len(vals))
	for candidate, val := range vals {
		rec, err := parseEntry(couple, id.CoupleID(candidate), val)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) Count(ctx context.Context, couple id.CoupleID) (int, error) {
	n, err := s.client.HLen(ctx, ledgerKey(couple)).Result()
	if err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return int(n), nil
}

// parseEntry decodes the "intent|unixnanos" hash value.
func parseEntry(couple, candidate id.CoupleID, val string) (Record, error) {
	tag, rest, ok := strings.Cut(val, "|")
	if !ok {
		return Record{}, fmt.Errorf("corrupt ledger entry %q", val)
	}
	nanos, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("corrupt ledger entry %q: %w", val, err)
	}
	return Record{
		Couple:      couple,
		Candidate:   candidate,
		Intent:      id.Intent(tag),
		ExpressedAt: time.Unix(0, nanos),
	}, nil
}
