package diffview

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/zjrosen/panediff/internal/cachemanager"
)

// cacheKey identifies a pair of line slices by content.
type cacheKey string

// alignedSides is the cached value: one differ result.
type alignedSides struct {
	Left  []LineRecord
	Right []LineRecord

	// Partial marks a result whose word diff ran out of time. It is served
	// to its caller but never stored.
	Partial bool
}

// differInput is the read-through cache input.
type differInput struct {
	oldLines []string
	newLines []string
}

// CachedDiffer memoizes another Differ by content hash, so re-diffing
// unchanged text (e.g. a reload triggered by a touch) is free.
type CachedDiffer struct {
	cache *cachemanager.ReadThroughCache[cacheKey, alignedSides, differInput]
}

// NewCachedDiffer wraps next with an in-memory cache whose entries live for ttl.
func NewCachedDiffer(next Differ, ttl time.Duration) *CachedDiffer {
	store := cachemanager.NewInMemoryCacheManager[cacheKey, alignedSides](
		"diff-results", ttl, cachemanager.DefaultCleanupInterval)
	return newCachedDifferWithStore(next, store, ttl)
}

func newCachedDifferWithStore(next Differ, store cachemanager.CacheManager[cacheKey, alignedSides], ttl time.Duration) *CachedDiffer {
	fn := func(ctx context.Context, in differInput) (alignedSides, error) {
		ctx, rep := withReport(ctx)
		left, right, err := next.SideBySide(ctx, in.oldLines, in.newLines)
		return alignedSides{Left: left, Right: right, Partial: rep.truncated}, err
	}
	cache := cachemanager.NewReadThroughCache[cacheKey, alignedSides, differInput](store, fn, ttl, true).
		Admit(func(v alignedSides) bool { return !v.Partial })
	return &CachedDiffer{cache: cache}
}

// SideBySide implements Differ.
func (d *CachedDiffer) SideBySide(ctx context.Context, oldLines, newLines []string) ([]LineRecord, []LineRecord, error) {
	sides, err := d.cache.Get(ctx, contentKey(oldLines, newLines), differInput{oldLines, newLines})
	if err != nil {
		return nil, nil, err
	}
	return sides.Left, sides.Right, nil
}

// Stats reports cache hits and misses.
func (d *CachedDiffer) Stats() cachemanager.Stats {
	return d.cache.Stats()
}

// contentKey hashes both line slices, length-prefixing each side.
func contentKey(oldLines, newLines []string) cacheKey {
	h := sha256.New()
	for _, side := range [][]string{oldLines, newLines} {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(side)))
		h.Write(n[:])
		for _, line := range side {
			h.Write([]byte(line))
			h.Write([]byte{'\n'})
		}
	}
	return cacheKey(hex.EncodeToString(h.Sum(nil)))
}
