package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisExportCache stores rendered exports zstd-compressed. The key embeds
// the graph digest, so an edited repertoire never hits a stale entry.
type RedisExportCache struct {
	log     *zap.SugaredLogger
	client  *redis.Client
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewRedisExportCache(log *zap.SugaredLogger, client *redis.Client, ttl time.Duration) (*RedisExportCache, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &RedisExportCache{
		log:     log,
		client:  client,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func exportKey(kind, id, digest string) string {
	return fmt.Sprintf("repertoire:%s:%s:%s", kind, id, digest)
}

func (c *RedisExportCache) LoadExport(ctx context.Context, kind, id, digest string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, exportKey(kind, id, digest)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("load %s export: %w", kind, err)
	}

	data, err := c.decoder.DecodeAll(raw, nil)
	if err != nil {
		c.log.Warnf("dropping corrupt %s export for %s: %v", kind, id, err)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *RedisExportCache) SaveExport(ctx context.Context, kind, id, digest string, data []byte) error {
	compressed := c.encoder.EncodeAll(data, nil)
	if err := c.client.Set(ctx, exportKey(kind, id, digest), compressed, c.ttl).Err(); err != nil {
		return fmt.Errorf("save %s export: %w", kind, err)
	}
	c.log.Debugf("cached %s export for %s: %d -> %d bytes", kind, id, len(data), len(compressed))
	return nil
}

func (c *RedisExportCache) Close() {
	c.encoder.Close()
	c.decoder.Close()
}
