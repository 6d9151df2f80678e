package termcodec

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/codec"
	"github.com/akilegaspi/unison/internal/diag"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/observ"
)

// cacheSchemaVersion guards against a stale on-disk payload surviving a
// wire-format change; bump it whenever cachePayload's shape changes.
const cacheSchemaVersion uint16 = 1

// Cache is a disk-backed store of encoded term graphs keyed by
// ident.Hash, so a caller can skip re-decompiling a Compiled value's
// inline term every time it is needed. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// cachePayload is the on-disk envelope: codec-encoded bytes plus enough
// metadata to detect a stale schema or a corrupt file before attempting
// to decode the graph itself.
type cachePayload struct {
	Schema uint16
	Digest [sha256.Size]byte
	Graph  []byte
}

// OpenCache initializes and returns a disk cache at the standard
// location for app, creating it if necessary.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key ident.Hash) string {
	return filepath.Join(c.dir, "terms", key.String()+".mp")
}

// Put encodes root with the graph codec and writes it to the cache under
// key, replacing any existing entry atomically. timer, if non-nil,
// records the encode phase's duration (spec's decode-vs-decompile timing
// comparison is completed by the caller timing its own decompile path).
func (c *Cache) Put(ctx context.Context, key ident.Hash, root *abt.Node, profile codec.Profile, timer *observ.Timer) error {
	var buf bytes.Buffer
	idx := -1
	if timer != nil {
		idx = timer.Begin("term-cache-encode")
	}
	err := codec.Encode[*abt.Node, *abt.Node](ctx, Adapter{}, &buf, profile.IncludeRefMetadata, root)
	if timer != nil {
		note := "ok"
		if err != nil {
			note = "failed"
		}
		timer.End(idx, note)
	}
	if err != nil {
		return err
	}

	payload := &cachePayload{
		Schema: cacheSchemaVersion,
		Digest: sha256.Sum256(buf.Bytes()),
		Graph:  buf.Bytes(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			fmt.Printf("termcodec: failed to remove temp file: %v\n", removeErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and decodes the term graph cached under key. ok is false for
// a cache miss; a present-but-unusable entry (schema mismatch or corrupt
// payload) is reported as an error rather than treated as a miss, since
// spec §7.2 classifies that as a diagnosable failure rather than a
// silent fallback.
func (c *Cache) Get(ctx context.Context, key ident.Hash, profile codec.Profile, timer *observ.Timer) (*abt.Node, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, diag.NewError(diag.CacheCorruptPayload, 0, fmt.Sprintf("%s: %v", key, err))
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, diag.NewError(diag.CacheSchemaMismatch, 0,
			fmt.Sprintf("%s: cached schema %d, running schema %d", key, payload.Schema, cacheSchemaVersion))
	}
	if sha256.Sum256(payload.Graph) != payload.Digest {
		return nil, false, diag.NewError(diag.CacheDigestMismatch, 0, fmt.Sprintf("%s: payload digest does not match its own stored graph", key))
	}

	idx := -1
	if timer != nil {
		idx = timer.Begin("term-cache-decode")
	}
	root, err := codec.Decode[*abt.Node, *abt.Node](ctx, Adapter{}, bytes.NewReader(payload.Graph), profile.MaxDepth)
	if timer != nil {
		note := "ok"
		if err != nil {
			note = "failed"
		}
		timer.End(idx, note)
	}
	if err != nil {
		return nil, false, err
	}
	return root, true, nil
}

// DropAll invalidates the cache, useful after a wire-format or schema
// change. It renames the cache directory aside before removing it so a
// concurrent reader mid-lookup sees a clean miss rather than a
// half-deleted tree.
func (c *Cache) DropAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// IsValidHash performs a basic sanity check that key is a non-zero
// content hash, mirroring the teacher cache's IsSHA256 check.
func IsValidHash(key ident.Hash) bool {
	return !key.IsZero()
}
