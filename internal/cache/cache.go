// Package cache memoizes the outcome of running internal/corepipeline
// over a package's file set, keyed by a content digest over every file in
// binding order.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"glyph/internal/corepipeline"
	"glyph/internal/source"
)

// Digest is a 256-bit content hash, compatible with source.File.Hash.
type Digest [32]byte

// PackageDigest combines every file's own hash, in FileOrder, into one
// digest for the whole package — the same file set in the same bind
// order always yields the same digest, and any edit to any file (or a
// reordering that changes FileOrder) invalidates it.
func PackageDigest(fs *source.FileSet, order []source.FileID) Digest {
	h := sha256.New()
	for _, fid := range order {
		f := fs.Get(fid)
		if f == nil {
			continue
		}
		h.Write(f.Hash[:])
		h.Write([]byte(f.Path))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// schemaVersion bumps whenever Payload's shape changes incompatibly.
const schemaVersion uint16 = 1

// Payload is what gets persisted: just the pass/fail verdict and which
// stage failed, never the registry-internal IDs a Result carries (those
// are only valid against the Registry that produced them, not stable
// across runs).
type Payload struct {
	Schema     uint16
	Failed     bool
	Stage      uint8
	ErrorCount int
}

func fromResult(r corepipeline.Result) Payload {
	return Payload{
		Schema:     schemaVersion,
		Failed:     r.Failed(),
		Stage:      uint8(r.Stage),
		ErrorCount: len(r.BindErrors) + len(r.VRErrors) + len(r.FRErrors) + len(r.PosErrors) + len(r.TCErrors),
	}
}

// Disk is a thread-safe on-disk cache of Payloads, one msgpack file per
// digest, written by temp-file-then-rename; each file is
// <dir>/packages/<hex digest>.mp.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open creates (if needed) and returns a disk cache rooted at dir.
func Open(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

func (c *Disk) pathFor(key Digest) string {
	return filepath.Join(c.dir, "packages", hex.EncodeToString(key[:])+".mp")
}

// Put records r's verdict under key, replacing any prior entry.
func (c *Disk) Put(key Digest, r corepipeline.Result) error {
	if c == nil {
		return nil
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
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(fromResult(r)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Lookup returns the cached verdict for key, if one was previously stored
// with the current schema version.
func (c *Disk) Lookup(key Digest) (Payload, bool, error) {
	if c == nil {
		return Payload{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Payload{}, false, nil
		}
		return Payload{}, false, err
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return Payload{}, false, err
	}
	if p.Schema != schemaVersion {
		return Payload{}, false, nil
	}
	return p, true, nil
}
