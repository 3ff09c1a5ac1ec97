package mathcache

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketMath  = "math"
	openTimeout = 5 * time.Second
)

// Bolt is a persistent cache backed by a bbolt file. Read and write failures
// are logged and behave as misses.
type Bolt struct {
	db     *bolt.DB
	logger *slog.Logger
}

// OpenBolt opens or creates the cache file at path.
func OpenBolt(path string, logger *slog.Logger) (*Bolt, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMath))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing cache bucket: %w", err)
	}

	return &Bolt{db: db, logger: logger}, nil
}

// Get returns the entry stored under key.
func (b *Bolt) Get(key string) (Entry, bool) {
	var (
		e     Entry
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketMath)).Get([]byte(key))
		if data == nil {
			return nil
		}
		if err := msgpack.Unmarshal(data, &e); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		b.logger.Warn("math cache read failed", "key", key, "error", err)
		return Entry{}, false
	}
	return e, found
}

// Put stores e under key.
func (b *Bolt) Put(key string, e Entry) {
	data, err := msgpack.Marshal(&e)
	if err != nil {
		b.logger.Warn("math cache encode failed", "key", key, "error", err)
		return
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMath)).Put([]byte(key), data)
	})
	if err != nil {
		b.logger.Warn("math cache write failed", "key", key, "error", err)
	}
}

// Close closes the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
