package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/movietracker/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketCached = []byte("cached_records")
	bucketLiked  = []byte("liked_items")
)

// Key prefixes inside bucketCached. Each key holds one scope as a JSON array
// in insertion order, so replacing a scope is a single Put.
const (
	prefixTrending = "trending:"
	prefixSearch   = "search:"
)

func trendingKey(page int) string  { return fmt.Sprintf("%s%08d", prefixTrending, page) }
func searchKey(term string) string { return prefixSearch + term }

func scopeKey(k domain.QueryKey) string {
	if k.IsSearch() {
		return searchKey(k.Term)
	}
	return trendingKey(k.Page)
}

var errNoBucket = errors.New("bucket missing")

// Store implements domain.CacheStore and domain.LikedStore using BoltDB.
type Store struct {
	db  *bolt.DB
	mu  sync.RWMutex // Protects memory cache and gen
	wmu sync.Mutex   // Serializes writers in memory-only mode

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
	gen   uint64 // Bumped on every write; stale reads are not promoted
}

var (
	_ domain.CacheStore = (*Store)(nil)
	_ domain.LikedStore = (*Store)(nil)
)

// NewStore opens (or creates) the bolt file under baseCacheDir.
// namespace partitions the cache per catalog endpoint; an empty baseCacheDir
// gives a memory-only store.
func NewStore(baseCacheDir, namespace string) (*Store, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &Store{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if namespace != "" {
		dir = filepath.Join(baseCacheDir, hashNamespace(namespace))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "movietracker.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketCached, bucketLiked} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func hashNamespace(namespace string) string {
	normalized := strings.TrimRight(strings.ToLower(namespace), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

// get decodes the value under key into dest. Missing keys report false.
func (s *Store) get(bucket []byte, key string, dest any) (bool, error) {
	ck := cacheKey(bucket, key)

	s.mu.RLock()
	data, ok := s.cache[ck]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return true, json.Unmarshal(data, dest)
	}

	if s.db == nil {
		return false, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return errNoBucket
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", ck, err)
	}
	if data == nil {
		return false, nil
	}

	// Promote to memory cache unless a write landed meanwhile
	s.mu.Lock()
	if s.gen == gen {
		s.cache[ck] = data
	}
	s.mu.Unlock()

	return true, json.Unmarshal(data, dest)
}

// update runs fn in one bolt transaction and then applies the resulting
// memory-cache changes. A nil value in changes means the key was deleted.
func (s *Store) update(bucket []byte, fn func(b *bolt.Bucket, changes map[string][]byte) error) error {
	changes := make(map[string][]byte)

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return errNoBucket
			}
			return fn(b, changes)
		})
		if err != nil {
			return err
		}
	} else {
		s.wmu.Lock()
		defer s.wmu.Unlock()
		if err := fn(nil, changes); err != nil {
			return err
		}
	}

	// With bolt behind us the cache is only invalidated; the next read promotes
	// whatever committed last. In memory-only mode the cache is the data.
	s.mu.Lock()
	s.gen++
	for key, data := range changes {
		ck := cacheKey(bucket, key)
		if data == nil || s.db != nil {
			delete(s.cache, ck)
		} else {
			s.cache[ck] = data
		}
	}
	s.mu.Unlock()
	return nil
}

// readInTx returns the current bytes for key, from bolt when persistent or
// from the memory cache in memory-only mode.
func (s *Store) readInTx(b *bolt.Bucket, bucket []byte, key string) []byte {
	if b != nil {
		return b.Get([]byte(key))
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[cacheKey(bucket, key)]
}

func put(b *bolt.Bucket, changes map[string][]byte, key string, data []byte) error {
	if b != nil {
		if err := b.Put([]byte(key), data); err != nil {
			return err
		}
	}
	changes[key] = data
	return nil
}

func del(b *bolt.Bucket, changes map[string][]byte, key string) error {
	if b != nil {
		if err := b.Delete([]byte(key)); err != nil {
			return err
		}
	}
	changes[key] = nil
	return nil
}

// forEach visits every key with prefix in bucket.
func (s *Store) forEach(bucket []byte, prefix string, fn func(key string, data []byte) error) error {
	if s.db == nil {
		s.mu.RLock()
		snapshot := make(map[string][]byte)
		cachePrefix := cacheKey(bucket, prefix)
		for k, v := range s.cache {
			if strings.HasPrefix(k, cachePrefix) {
				snapshot[strings.TrimPrefix(k, string(bucket)+":")] = v
			}
		}
		s.mu.RUnlock()

		keys := make([]string, 0, len(snapshot))
		for k := range snapshot {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := fn(k, snapshot[k]); err != nil {
				return err
			}
		}
		return nil
	}

	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return errNoBucket
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, v := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
			if err := fn(string(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Cached records ===

func (s *Store) scope(key string) ([]domain.CachedRecord, error) {
	var records []domain.CachedRecord
	if _, err := s.get(bucketCached, key, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) TrendingPage(ctx context.Context, page int) ([]domain.CachedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scope(trendingKey(page))
}

func (s *Store) SearchResults(ctx context.Context, term string) ([]domain.CachedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scope(searchKey(term))
}

// InsertAll appends records to their scopes, preserving argument order.
func (s *Store) InsertAll(ctx context.Context, records []domain.CachedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	grouped := make(map[string][]domain.CachedRecord)
	var order []string
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		key := scopeKey(r.Key())
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], r)
	}

	return s.update(bucketCached, func(b *bolt.Bucket, changes map[string][]byte) error {
		for _, key := range order {
			var existing []domain.CachedRecord
			if data := s.readInTx(b, bucketCached, key); data != nil {
				if err := json.Unmarshal(data, &existing); err != nil {
					return fmt.Errorf("failed to decode %s: %w", key, err)
				}
			}
			data, err := json.Marshal(append(existing, grouped[key]...))
			if err != nil {
				return err
			}
			if err := put(b, changes, key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) deleteScope(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(bucketCached, func(b *bolt.Bucket, changes map[string][]byte) error {
		return del(b, changes, key)
	})
}

func (s *Store) DeleteTrendingPage(ctx context.Context, page int) error {
	return s.deleteScope(ctx, trendingKey(page))
}

func (s *Store) DeleteSearchResults(ctx context.Context, term string) error {
	return s.deleteScope(ctx, searchKey(term))
}

// replaceScope swaps the whole scope in one transaction. Records belonging to
// another scope are rejected.
func (s *Store) replaceScope(ctx context.Context, key string, records []domain.CachedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if scopeKey(r.Key()) != key {
			return fmt.Errorf("%w: record %d does not belong to %s", domain.ErrInvalidScope, r.ExternalID, key)
		}
	}

	return s.update(bucketCached, func(b *bolt.Bucket, changes map[string][]byte) error {
		if len(records) == 0 {
			return del(b, changes, key)
		}
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		return put(b, changes, key, data)
	})
}

func (s *Store) ReplaceTrendingPage(ctx context.Context, page int, records []domain.CachedRecord) error {
	return s.replaceScope(ctx, trendingKey(page), records)
}

func (s *Store) ReplaceSearchResults(ctx context.Context, term string, records []domain.CachedRecord) error {
	return s.replaceScope(ctx, searchKey(term), records)
}

// DeleteOlderThan drops every cached record with CachedAt before cutoff and
// reports how many were removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed := 0
	err := s.update(bucketCached, func(b *bolt.Bucket, changes map[string][]byte) error {
		type scope struct {
			key  string
			data []byte
		}
		var scopes []scope
		if b != nil {
			if err := b.ForEach(func(k, v []byte) error {
				scopes = append(scopes, scope{key: string(k), data: v})
				return nil
			}); err != nil {
				return err
			}
		} else {
			err := s.forEach(bucketCached, "", func(key string, data []byte) error {
				scopes = append(scopes, scope{key: key, data: data})
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, sc := range scopes {
			var records []domain.CachedRecord
			if err := json.Unmarshal(sc.data, &records); err != nil {
				return fmt.Errorf("failed to decode %s: %w", sc.key, err)
			}
			kept := make([]domain.CachedRecord, 0, len(records))
			for _, r := range records {
				if r.CachedAt.Before(cutoff) {
					continue
				}
				kept = append(kept, r)
			}
			if len(kept) == len(records) {
				continue
			}
			removed += len(records) - len(kept)

			if len(kept) == 0 {
				if err := del(b, changes, sc.key); err != nil {
					return err
				}
				continue
			}
			data, err := json.Marshal(kept)
			if err != nil {
				return err
			}
			if err := put(b, changes, sc.key, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// === Liked items (key: liked ID) ===

func (s *Store) ListLiked(ctx context.Context) ([]domain.LikedEntity, error) {
	return s.listLiked(ctx, func(domain.LikedEntity) bool { return true })
}

func (s *Store) ListLikedByKind(ctx context.Context, kind domain.MediaKind) ([]domain.LikedEntity, error) {
	return s.listLiked(ctx, func(e domain.LikedEntity) bool { return e.Kind() == kind })
}

func (s *Store) listLiked(ctx context.Context, keep func(domain.LikedEntity) bool) ([]domain.LikedEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []domain.LikedEntity
	err := s.forEach(bucketLiked, "", func(key string, data []byte) error {
		var e domain.LikedEntity
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to decode liked item %s: %w", key, err)
		}
		if keep(e) {
			items = append(items, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest first
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) InsertLiked(ctx context.Context, e domain.LikedEntity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.ID == "" {
		return errors.New("liked item has no id")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.update(bucketLiked, func(b *bolt.Bucket, changes map[string][]byte) error {
		return put(b, changes, e.ID, data)
	})
}

// DeleteLiked removes the item with id. Deleting a missing id is not an error.
func (s *Store) DeleteLiked(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(bucketLiked, func(b *bolt.Bucket, changes map[string][]byte) error {
		return del(b, changes, id)
	})
}

// InvalidateAll wipes the memory cache and every cached record. Liked items are kept.
func (s *Store) InvalidateAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil {
		s.mu.Lock()
		prefix := string(bucketCached) + ":"
		for k := range s.cache {
			if strings.HasPrefix(k, prefix) {
				delete(s.cache, k)
			}
		}
		s.gen++
		s.mu.Unlock()
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketCached); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketCached)
		return err
	})

	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.gen++
	s.mu.Unlock()
	return err
}
