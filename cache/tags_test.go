package cache

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagIndexAddMatchRemove(t *testing.T) {
	idx := newTagIndex()
	idx.add("items", "items:1")
	idx.add("items", "items:2")
	idx.add("orders", "orders:9")

	got := idx.match("items")
	sort.Strings(got)
	require.Equal(t, []string{"items:1", "items:2"}, got)

	idx.remove("items", "items:1")
	require.Equal(t, []string{"items:2"}, idx.match("items"))

	// Tag entry is dropped once its set empties.
	idx.remove("items", "items:2")
	require.Empty(t, idx.match("items"))
	_, ok := idx.tags.Load("items")
	require.False(t, ok)

	require.Equal(t, []string{"orders:9"}, idx.match("orders"))
}

func TestTagIndexMatchIsCaseInsensitive(t *testing.T) {
	idx := newTagIndex()
	idx.add("Items", "Items:1")

	require.Equal(t, []string{"Items:1"}, idx.match("items"))
	require.Equal(t, []string{"Items:1"}, idx.match("ITEMS:1"))
}

func TestTagIndexPrefixLongerThanTag(t *testing.T) {
	idx := newTagIndex()
	idx.add("items", "items:1")
	idx.add("items", "items:22")

	// Prefix reaches into the member keys; only true prefixes match.
	require.Equal(t, []string{"items:22"}, idx.match("items:2"))
	require.Empty(t, idx.match("items:3"))
}

func TestTagIndexConcurrentMutation(t *testing.T) {
	idx := newTagIndex()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				idx.add("items", "items:1")
				idx.remove("items", "items:1")
			}
		}()
	}
	wg.Wait()
	require.Empty(t, idx.match("items"))
}

// An add must never be lost to a concurrent remove that empties the tag and
// drops its entry: the inserted key has to be visible to match immediately.
func TestTagIndexAddVisibleDespiteConcurrentTagDrop(t *testing.T) {
	idx := newTagIndex()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			idx.add("t", "t:a")
			idx.remove("t", "t:a") // empties the tag; entry may be dropped
		}
	}()

	for i := 0; i < 20000; i++ {
		idx.add("t", "t:b")
		found := false
		for _, k := range idx.match("t") {
			if k == "t:b" {
				found = true
				break
			}
		}
		if !found {
			close(stop)
			wg.Wait()
			t.Fatalf("iteration %d: t:b not matched right after add", i)
		}
		idx.remove("t", "t:b")
	}
	close(stop)
	wg.Wait()
}

func TestTagOf(t *testing.T) {
	require.Equal(t, "items", tagOf("items:1", ':'))
	require.Equal(t, "items", tagOf("items", ':'))
	require.Equal(t, "", tagOf(":weird", ':'))
}
