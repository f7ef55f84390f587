package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	runsBucket       = "runs"
	recordsBucket    = "records"
	expiresKey       = "expires"
	expiryValueBytes = 8
)

var errRunsBucketMissing = errors.New("runs bucket missing")

// boltStore implements a Store backed by BoltDB. Each run is a nested bucket
// holding its expiry and a records bucket keyed by big-endian sequence numbers.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	runTTL          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		runTTL:          opts.RunTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SaveRun replaces the stored records of runID.
func (b *boltStore) SaveRun(runID string, records []domain.ArticleRecord) error {
	if b == nil || b.db == nil {
		return nil
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return errors.New("run id is empty")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		if runs == nil {
			return errRunsBucketMissing
		}
		if runs.Bucket([]byte(runID)) != nil {
			if err := runs.DeleteBucket([]byte(runID)); err != nil {
				return fmt.Errorf("replace run %s: %w", runID, err)
			}
		}

		run, err := runs.CreateBucket([]byte(runID))
		if err != nil {
			return fmt.Errorf("create run %s: %w", runID, err)
		}
		if err := run.Put([]byte(expiresKey), encodeExpiry(now.Add(b.runTTL))); err != nil {
			return err
		}
		recs, err := run.CreateBucket([]byte(recordsBucket))
		if err != nil {
			return err
		}

		for i, rec := range records {
			raw, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode record %d: %w", i, err)
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := recs.Put(key, raw); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadRun returns the records of runID in their saved order. Expired runs are
// removed and reported as missing.
func (b *boltStore) LoadRun(runID string) ([]domain.ArticleRecord, bool, error) {
	if b == nil || b.db == nil {
		return nil, false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, false, err
	}

	var (
		out   []domain.ArticleRecord
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		if runs == nil {
			return errRunsBucketMissing
		}
		run := runs.Bucket([]byte(runID))
		if run == nil {
			return nil
		}

		expiry, ok := decodeExpiry(run.Get([]byte(expiresKey)))
		if !ok || !expiry.After(now) {
			return runs.DeleteBucket([]byte(runID))
		}

		recs := run.Bucket([]byte(recordsBucket))
		if recs == nil {
			return fmt.Errorf("run %s has no records bucket", runID)
		}
		out = make([]domain.ArticleRecord, 0, recs.Stats().KeyN)
		if err := recs.ForEach(func(_, v []byte) error {
			var rec domain.ArticleRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			out = append(out, rec)
			return nil
		}); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

// maybeCleanupExpired drops expired runs on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		if runs == nil {
			return errRunsBucketMissing
		}

		var expired [][]byte
		if err := runs.ForEachBucket(func(k []byte) error {
			expiry, ok := decodeExpiry(runs.Bucket(k).Get([]byte(expiresKey)))
			if !ok || !expiry.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := runs.DeleteBucket(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
