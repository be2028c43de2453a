package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/telemetry/tracing"
)

const (
	conversationKeyPrefix = "gymai-conversation||"
	conversationsSetKey   = "gymai-conversations"
)

// RedisStore keeps each conversation as a JSON string, indexed by a sorted
// set scored with the time of the last message.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func conversationKey(id string) string {
	return conversationKeyPrefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (_ *Conversation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.coach.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cmd := s.redisClient.Get(ctx, conversationKey(id))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}

	var conv Conversation
	if err := json.Unmarshal([]byte(cmd.Val()), &conv); err != nil {
		log.Warnf("coach: corrupt conversation %s, starting over: %s", id, err)
		return nil, ErrConversationNotFound
	}
	return &conv, nil
}

func (s *RedisStore) Save(ctx context.Context, conv *Conversation) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.coach.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	payload, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	if err := s.redisClient.Set(ctx, conversationKey(conv.ID), string(payload), 0).Err(); err != nil {
		return fmt.Errorf("set conversation %s: %w", conv.ID, err)
	}

	cmdZAdd := s.redisClient.ZAdd(ctx, conversationsSetKey, &redis.Z{
		Score:  float64(conv.LastActivity().Unix()),
		Member: conv.ID,
	})
	if err := cmdZAdd.Err(); err != nil {
		return fmt.Errorf("index conversation %s: %w", conv.ID, err)
	}
	return nil
}

// List returns every conversation, most recently active first. Entries that
// went missing or cannot be decoded are skipped.
func (s *RedisStore) List(ctx context.Context) (_ []ConversationInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.coach.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cmdIDs := s.redisClient.ZRevRange(ctx, conversationsSetKey, 0, -1)
	if err := cmdIDs.Err(); err != nil {
		return nil, fmt.Errorf("list conversation ids: %w", err)
	}
	ids := cmdIDs.Val()
	if len(ids) == 0 {
		return []ConversationInfo{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = conversationKey(id)
	}
	cmdValues := s.redisClient.MGet(ctx, keys...)
	if err := cmdValues.Err(); err != nil {
		return nil, fmt.Errorf("get conversations: %w", err)
	}

	infos := make([]ConversationInfo, 0, len(ids))
	for i, v := range cmdValues.Val() {
		raw, ok := v.(string)
		if !ok {
			log.Debugf("coach: conversation %s indexed but missing", ids[i])
			continue
		}
		var conv Conversation
		if err := json.Unmarshal([]byte(raw), &conv); err != nil {
			log.Warnf("coach: skip corrupt conversation %s: %s", ids[i], err)
			continue
		}
		infos = append(infos, conv.Info())
	}
	return infos, nil
}
