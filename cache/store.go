// Package cache implements the two-tier payload cache: a process-lifetime
// in-memory tier backed by a durable key-value store. The durable store's
// identity embeds a schema version; bumping the version abandons every prior
// entry without touching it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
)

// SchemaVersion tags the durable store identity. Bump to invalidate all
// previously persisted payloads at once; old stores are abandoned, not
// deleted, until explicit cleanup.
const SchemaVersion = 3

var (
	ErrStoreUnavailable = errors.New("durable store unavailable")
	ErrInvalidKey       = errors.New("invalid cache key")
)

// Store is the durable tier: an origin-scoped persistent key-value store.
// Values are opaque payload bytes. A miss is nil, false, nil.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// --- File store ---

// FileStore persists payloads as one file per key under a versioned
// directory. The directory name carries SchemaVersion, so a version bump
// starts from an empty store.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at baseDir. The versioned
// subdirectory is created on first write.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{dir: filepath.Join(baseDir, fmt.Sprintf("atlas-cache-v%d", SchemaVersion))}
}

// Dir returns the versioned directory this store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	// Write-then-rename keeps concurrent readers off partial files.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return nil
}

// --- Redis store ---

// RedisStore persists payloads in Redis under a versioned key prefix.
// Entries carry no TTL; invalidation is by version bump or explicit Clear.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: fmt.Sprintf("atlas:v%d:", SchemaVersion),
	}
}

// OpenRedisFromEnv opens a Redis client from REDIS_HOST / REDIS_PORT /
// REDIS_PASS / REDIS_DB. Returns nil when REDIS_HOST is unset, in which case
// callers should fall back to the file store.
func OpenRedisFromEnv() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		fmt.Sscanf(v, "%d", &db)
	}
	return redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
	})
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
