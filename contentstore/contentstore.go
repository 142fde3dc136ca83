// Package contentstore is a content-addressed store of canonical ungapped
// parent BioString values, keyed by their MD5 digest.
//
// The original C++ implementation gave Msa raw pointer ownership of Subseq,
// which in turn held a raw pointer to a shared AnonSeq parent, with a
// documented footgun: the AnonSeq must outlive every Subseq referencing it.
// Subseq here instead holds a Handle into a Store, which independently keeps
// the parent alive for as long as any handle references it (by reference
// count), eliminating that lifetime coupling.
//
// Lookup and insertion are backed by github.com/armon/go-radix (the
// teacher's own dependency, used in align.Compress for site-pattern
// deduplication); here the same radix-tree-keyed dedup structure is
// repurposed to deduplicate whole parent sequences by their hex digest.
package contentstore

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/armon/go-radix"

	"github.com/lukeulrich/alignshop/biostring"
)

// Handle is an opaque reference to a parent BioString held by a Store. The
// zero Handle is invalid.
type Handle struct {
	digest string
}

// Valid reports whether h refers to a registered parent.
func (h Handle) Valid() bool { return h.digest != "" }

// String renders the handle's hex digest, for logging/debugging.
func (h Handle) String() string { return h.digest }

type entry struct {
	parent   biostring.BioString
	refcount int
}

// Store is a reference-counted, content-addressed map of parent BioString
// values. The zero value is not usable; use New.
type Store struct {
	mu   sync.Mutex
	tree *radix.Tree
}

// New returns an empty Store.
func New() *Store {
	return &Store{tree: radix.New()}
}

// Put registers parent (or reuses an existing entry with an identical
// digest) and returns a handle with its reference count incremented.
func (s *Store) Put(parent biostring.BioString) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest := parent.Digest()
	key := hex.EncodeToString(digest[:])
	if raw, ok := s.tree.Get(key); ok {
		e := raw.(*entry)
		e.refcount++
		return Handle{digest: key}
	}
	s.tree.Insert(key, &entry{parent: parent, refcount: 1})
	return Handle{digest: key}
}

// Get resolves a handle back to its parent BioString.
func (s *Store) Get(h Handle) (biostring.BioString, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.tree.Get(h.digest)
	if !ok {
		return biostring.BioString{}, fmt.Errorf("contentstore: unknown handle %s", h)
	}
	return raw.(*entry).parent, nil
}

// Release decrements h's reference count, removing the parent from the
// store once it reaches zero. Releasing an already-removed or invalid
// handle is a no-op.
func (s *Store) Release(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.tree.Get(h.digest)
	if !ok {
		return
	}
	e := raw.(*entry)
	e.refcount--
	if e.refcount <= 0 {
		s.tree.Delete(h.digest)
	}
}

// Len returns the number of distinct parents currently registered.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Len()
}
