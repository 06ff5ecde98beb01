package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"coinscope/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot means the store holds no persisted coin list.
var ErrNoSnapshot = errors.New("no persisted coin list")

// Store persists the raw coin list between process runs.
type Store interface {
	Load(ctx context.Context) ([]domain.Coin, error)
	Save(ctx context.Context, coins []domain.Coin) error
}

// FileStore keeps the coin list as a single JSON array file, replaced wholesale on every save.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) ([]domain.Coin, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read coin list file: %w", err)
	}
	return decodeCoins(data)
}

// Save writes to a temporary file in the same directory and renames it over the old one.
func (s *FileStore) Save(ctx context.Context, coins []domain.Coin) error {
	data, err := json.Marshal(coins)
	if err != nil {
		return fmt.Errorf("marshal coin list: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create coin list dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".coin_list-*.json")
	if err != nil {
		return fmt.Errorf("create temp coin list: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp coin list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp coin list: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace coin list file: %w", err)
	}
	return nil
}

// RedisClient is the subset of go-redis used by RedisStore.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

const redisCoinListKey = "coins:list"

// RedisStore shares one persisted coin list between bot instances.
type RedisStore struct {
	client RedisClient
}

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.Coin, error) {
	data, err := s.client.Get(ctx, redisCoinListKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read coin list from redis: %w", err)
	}
	return decodeCoins(data)
}

func (s *RedisStore) Save(ctx context.Context, coins []domain.Coin) error {
	data, err := json.Marshal(coins)
	if err != nil {
		return fmt.Errorf("marshal coin list: %w", err)
	}
	return s.client.Set(ctx, redisCoinListKey, data, 0).Err()
}

func decodeCoins(data []byte) ([]domain.Coin, error) {
	var coins []domain.Coin
	if err := json.Unmarshal(data, &coins); err != nil {
		return nil, fmt.Errorf("parse coin list: %w", err)
	}
	if err := validate(coins); err != nil {
		return nil, err
	}
	return coins, nil
}

// validate rejects lists that cannot back a directory: empty ones and entries without an id.
func validate(coins []domain.Coin) error {
	if len(coins) == 0 {
		return fmt.Errorf("coin list is empty")
	}
	for i, c := range coins {
		if c.ID == "" {
			return fmt.Errorf("coin list entry %d has no id", i)
		}
	}
	return nil
}
