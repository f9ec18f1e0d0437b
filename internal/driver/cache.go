package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"bindery/internal/binding"
)

// cacheSchemaVersion invalidates cached summaries when the shape changes.
const cacheSchemaVersion uint16 = 1

// Summary is the cheap-to-store digest of one analysis run, keyed by the
// content hash of the serialized tree it came from.
type Summary struct {
	Schema          uint16
	Scopes          int
	Variables       int
	References      int
	Definitions     int
	Unresolved      int
	ImplicitGlobals int
}

// Summarize counts the structural outcome of one finished table.
func Summarize(t *binding.Table) Summary {
	s := Summary{
		Schema:      cacheSchemaVersion,
		Scopes:      t.Scopes.Len(),
		Variables:   t.Vars.Len(),
		References:  t.Refs.Len(),
		Definitions: t.Defs.Len(),
	}
	for _, ref := range t.Refs.Data() {
		if !ref.IsResolved() {
			s.Unresolved++
		}
	}
	for _, v := range t.Vars.Data() {
		if v.Flags&binding.VarFlagImplicitGlobal != 0 {
			s.ImplicitGlobals++
		}
	}
	return s
}

// DiskCache stores analysis summaries on disk, keyed by tree content hash.
// Safe for concurrent use; all failures are soft, a cache that cannot be
// read or written degrades to recomputing.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes a cache under the standard user cache
// directory.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "trees")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(content []byte) string {
	key := sha256.Sum256(content)
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put writes one summary. The write goes through a temp file and an atomic
// rename so readers never observe a torn entry.
func (c *DiskCache) Put(content []byte, s Summary) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.pathFor(content)
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&s); err != nil {
		f.Close()
		return
	}
	if err := f.Close(); err != nil {
		return
	}
	_ = os.Rename(f.Name(), path)
}

// Get reads the summary for content, reporting a miss for absent, stale or
// undecodable entries.
func (c *DiskCache) Get(content []byte) (Summary, bool) {
	if c == nil {
		return Summary{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(content))
	if err != nil {
		return Summary{}, false
	}
	defer f.Close()

	var s Summary
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return Summary{}, false
	}
	if s.Schema != cacheSchemaVersion {
		return Summary{}, false
	}
	return s, true
}
