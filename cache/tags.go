package cache

import (
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// tagIndex groups live logical keys by tag (first key segment) so that
// prefix invalidation enumerates candidates instead of scanning the backing
// key space. In-process only: a restart empties the index, and pattern
// removal covers only entries written since; older entries are bounded by
// their TTL.
//
// Locking is per tag. Insertion order within a tag's key set is irrelevant.
type tagIndex struct {
	tags *xsync.MapOf[string, *tagSet]
}

type tagSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newTagIndex() *tagIndex {
	return &tagIndex{tags: xsync.NewMapOf[string, *tagSet]()}
}

func (t *tagIndex) add(tag, key string) {
	// Insert while holding the map entry, not after: with the set pointer
	// captured first, a racing remove that empties the set could drop the tag
	// entry in between and the key would land in an orphaned set.
	t.tags.Compute(tag, func(cur *tagSet, loaded bool) (*tagSet, bool) {
		if !loaded {
			cur = &tagSet{keys: make(map[string]struct{})}
		}
		cur.mu.Lock()
		cur.keys[key] = struct{}{}
		cur.mu.Unlock()
		return cur, false
	})
}

func (t *tagIndex) remove(tag, key string) {
	s, ok := t.tags.Load(tag)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.keys, key)
	empty := len(s.keys) == 0
	s.mu.Unlock()
	if !empty {
		return
	}
	// Drop the tag entry only if still empty; a racing add keeps it alive.
	t.tags.Compute(tag, func(cur *tagSet, loaded bool) (*tagSet, bool) {
		if !loaded {
			return nil, true
		}
		cur.mu.Lock()
		defer cur.mu.Unlock()
		return cur, len(cur.keys) == 0
	})
}

// match returns the live logical keys starting with prefix,
// case-insensitively. Tags act as a coarse filter: a tag's set can only hold
// matches when the tag and the prefix are prefixes of one another.
func (t *tagIndex) match(prefix string) []string {
	low := strings.ToLower(prefix)
	var out []string
	t.tags.Range(func(tag string, s *tagSet) bool {
		lt := strings.ToLower(tag)
		if !strings.HasPrefix(lt, low) && !strings.HasPrefix(low, lt) {
			return true
		}
		s.mu.Lock()
		for k := range s.keys {
			if strings.HasPrefix(strings.ToLower(k), low) {
				out = append(out, k)
			}
		}
		s.mu.Unlock()
		return true
	})
	return out
}
