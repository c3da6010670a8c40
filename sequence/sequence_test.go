package sequence

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memSource is an in-memory stand-in for the order store: MaxNumber scans
// inserted numbers, like the indexed query would.
type memSource struct {
	mu      sync.Mutex
	numbers []string
	delay   time.Duration // artificial latency inside the critical section
	err     error
}

func (s *memSource) MaxNumber(_ context.Context, prefix string) (string, bool, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	var best string
	for _, n := range s.numbers {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		if len(n) > len(best) || (len(n) == len(best) && n > best) {
			best = n
		}
	}
	return best, best != "", nil
}

func (s *memSource) insert(n string) {
	s.mu.Lock()
	s.numbers = append(s.numbers, n)
	s.mu.Unlock()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestGenerator(t *testing.T, src Source, now func() time.Time) *Generator {
	t.Helper()
	g, err := New(Options{Prefix: "ORD", Source: src, Now: now})
	require.NoError(t, err)
	return g
}

func TestSerialGenerationAndDayRollover(t *testing.T) {
	ctx := context.Background()
	src := &memSource{}
	day1 := time.Date(2026, 1, 6, 15, 0, 0, 0, time.UTC)
	current := day1
	g := newTestGenerator(t, src, func() time.Time { return current })

	for i, want := range []string{"ORD-20260106-0001", "ORD-20260106-0002", "ORD-20260106-0003"} {
		got, err := g.Next(ctx)
		require.NoError(t, err, "call %d", i+1)
		require.Equal(t, want, got)
		src.insert(got)
	}

	// Next UTC day: the counter starts over.
	current = day1.Add(24 * time.Hour)
	got, err := g.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD-20260107-0001", got)
}

func TestCounterWidensPast9999(t *testing.T) {
	ctx := context.Background()
	src := &memSource{}
	src.insert("ORD-20260106-9999")
	g := newTestGenerator(t, src, fixedClock(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))

	got, err := g.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD-20260106-10000", got)

	src.insert(got)
	got, err = g.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD-20260106-10001", got)
}

func TestConcurrentGenerationNeverDuplicates(t *testing.T) {
	ctx := context.Background()
	src := &memSource{delay: 2 * time.Millisecond}
	g := newTestGenerator(t, src, fixedClock(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))

	const callers = 32
	results := make(chan string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			n, err := g.Next(ctx)
			require.NoError(t, err)
			results <- n
			// insert lags generation on purpose; uniqueness must not depend
			// on it
			src.insert(n)
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, callers)
	for n := range results {
		require.False(t, seen[n], "duplicate identifier %s", n)
		seen[n] = true
	}
	require.Len(t, seen, callers)
}

func TestStoreFaultPropagates(t *testing.T) {
	ctx := context.Background()
	src := &memSource{err: errors.New("connection refused")}
	g := newTestGenerator(t, src, fixedClock(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))

	_, err := g.Next(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}

func TestMalformedStoredNumberIsFatal(t *testing.T) {
	ctx := context.Background()
	src := &memSource{}
	src.insert("ORD-20260106-oops")
	g := newTestGenerator(t, src, fixedClock(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))

	_, err := g.Next(ctx)
	require.ErrorIs(t, err, ErrBadStoredNumber)
}

func TestIdentifierShape(t *testing.T) {
	ctx := context.Background()
	src := &memSource{}
	g := newTestGenerator(t, src, nil) // real clock

	got, err := g.Next(ctx)
	require.NoError(t, err)
	require.Regexp(t, `^[A-Z]+-\d{8}-\d{4,}$`, got)
	require.True(t, strings.HasPrefix(got, "ORD-"))
	require.True(t, strings.HasSuffix(got, "-0001"))
}

func TestNewValidation(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err) // missing source

	_, err = New(Options{Prefix: "ord", Source: &memSource{}})
	require.Error(t, err) // lowercase prefix

	g, err := New(Options{Source: &memSource{}})
	require.NoError(t, err)
	require.Equal(t, "ORD", g.prefix)
}
