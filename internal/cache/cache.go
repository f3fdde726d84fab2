// Package cache keeps the per-table action log in Redis.
//
// Every record is appended to the table's list and published on a shared
// channel so that a historian process can follow all tables at once.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChannelActions is the pub/sub channel every action record is published on.
const ChannelActions = "handfoot:actions"

// ActionRecord is one logged table action.
type ActionRecord struct {
	TableID     uuid.UUID      `json:"tableId"`
	ActionIndex int            `json:"actionIndex"`
	ActorID     uuid.UUID      `json:"actorId"` // uuid.Nil for table events
	ActionType  string         `json:"actionType"`
	Payload     map[string]any `json:"payload"`
	Timestamp   int64          `json:"timestamp"` // Unix milliseconds
}

// ActionsKey returns the Redis list holding a table's action log.
func ActionsKey(tableID uuid.UUID) string {
	return "handfoot:table:" + tableID.String() + ":actions"
}

// Publisher writes action records to Redis.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher wraps an existing client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Connect dials addr and checks the connection with PING.
func Connect(ctx context.Context, addr string) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Publisher{rdb: rdb}, nil
}

// Publish appends rec to its table's log and announces it on ChannelActions
// in one MULTI/EXEC transaction.
func (p *Publisher) Publish(ctx context.Context, rec ActionRecord) error {
	data, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, ActionsKey(rec.TableID), data)
		pipe.Publish(ctx, ChannelActions, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish action %d for table %s: %w", rec.ActionIndex, rec.TableID, err)
	}
	return nil
}

// History reads a table's action log in order.
func (p *Publisher) History(ctx context.Context, tableID uuid.UUID) ([]ActionRecord, error) {
	raw, err := p.rdb.LRange(ctx, ActionsKey(tableID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read actions for table %s: %w", tableID, err)
	}
	out := make([]ActionRecord, 0, len(raw))
	for i, s := range raw {
		rec, err := DecodeRecord([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("action %d for table %s: %w", i, tableID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close releases the Redis connection pool.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

// EncodeRecord serializes rec as stored in Redis.
func EncodeRecord(rec ActionRecord) ([]byte, error) {
	if rec.Payload == nil {
		rec.Payload = map[string]any{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode action record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a stored record.
func DecodeRecord(data []byte) (ActionRecord, error) {
	var rec ActionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return ActionRecord{}, fmt.Errorf("decode action record: %w", err)
	}
	return rec, nil
}
