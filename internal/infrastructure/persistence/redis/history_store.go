// Package redis provides the Redis-backed history store
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/infrastructure/config"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// HistoryStore keeps one capped list per kind. Push is LPUSH+LTRIM in a
// MULTI block, so concurrent writers never see an over-long list.
type HistoryStore struct {
	client    goredis.UniversalClient
	keyPrefix string
	logger    *zap.Logger
}

// NewClient creates a Redis client from configuration and verifies connectivity
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetAddr(), err)
	}
	return client, nil
}

// NewHistoryStore creates a new Redis history store
func NewHistoryStore(client goredis.UniversalClient, keyPrefix string, logger *zap.Logger) *HistoryStore {
	if keyPrefix == "" {
		keyPrefix = "shelfie:history"
	}
	return &HistoryStore{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.Named("history-redis"),
	}
}

var _ outbound.HistoryStore = (*HistoryStore)(nil)

func (s *HistoryStore) key(kind analysis.HistoryKind) string {
	return s.keyPrefix + ":" + string(kind)
}

// Push prepends entry and trims the list to limit
func (s *HistoryStore) Push(ctx context.Context, entry analysis.HistoryEntry, limit int) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	key := s.key(entry.Kind)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		if limit > 0 {
			pipe.LTrim(ctx, key, 0, int64(limit-1))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("History push failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to push history entry: %w", err)
	}
	return nil
}

// Recent returns the stored entries for kind, newest first. Undecodable items are skipped.
func (s *HistoryStore) Recent(ctx context.Context, kind analysis.HistoryKind) ([]analysis.HistoryEntry, error) {
	key := s.key(kind)
	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]analysis.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry analysis.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			s.logger.Warn("Skipping undecodable history entry", zap.String("key", key), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear deletes both history lists
func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key(analysis.HistoryAnalysis), s.key(analysis.HistorySuggestion)).Err()
}
