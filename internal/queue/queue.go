package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ApprovalQueueKey is the Redis list holding pending approval decisions.
const ApprovalQueueKey = "approval:queue"

// Decision actions carried by queue entries.
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// Entry is one pending approval decision on the queue.
type Entry struct {
	UserID     uint      `json:"user_id"`
	Action     string    `json:"action"`
	ApprovedBy uint      `json:"approved_by"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// ApprovalQueue is a FIFO list of decisions awaiting async processing.
// PeekBatch and DequeueHead are decoupled on purpose: the worker is the
// queue's single consumer and pops only after a decision was applied.
type ApprovalQueue interface {
	Enqueue(ctx context.Context, entry Entry) error
	PeekBatch(ctx context.Context, n int) ([]Entry, error)
	DequeueHead(ctx context.Context) error
}

type redisQueue struct {
	client *redis.Client
}

// New creates a Redis-backed approval queue.
func New(addr, password string, db int) ApprovalQueue {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &redisQueue{client: redis.NewClient(opts)}
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client) ApprovalQueue {
	return &redisQueue{client: client}
}

// Enqueue appends an entry to the tail of the queue.
func (q *redisQueue) Enqueue(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal queue entry: %w", err)
	}
	if err := q.client.RPush(ctx, ApprovalQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue approval entry: %w", err)
	}
	return nil
}

// PeekBatch returns up to n entries from the head without removing them.
func (q *redisQueue) PeekBatch(ctx context.Context, n int) ([]Entry, error) {
	items, err := q.client.LRange(ctx, ApprovalQueueKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("peek approval queue: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal queue entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DequeueHead removes the current head entry. Must be called right after the
// head was processed; there is no id matching against what was peeked.
func (q *redisQueue) DequeueHead(ctx context.Context) error {
	if err := q.client.LPop(ctx, ApprovalQueueKey).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("dequeue approval entry: %w", err)
	}
	return nil
}
