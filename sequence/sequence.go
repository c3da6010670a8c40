// Package sequence issues human-readable, day-scoped order numbers of the
// form PREFIX-YYYYMMDD-NNNN: a 4-digit, zero-padded counter that is strictly
// increasing within a UTC calendar day, unique per day, and resets on the
// next. The counter widens past 9999 (…-10000) rather than truncating.
//
// The generator derives the next number from the persistent store instead of
// holding its own counter, so it tolerates process restarts without losing
// its place.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Source is the persistent store the generator derives its state from.
// The identifier column must be indexed, ideally uniquely constrained, to
// keep the lookup cheap and to catch any generator defect on insert.
type Source interface {
	// MaxNumber returns the greatest stored identifier starting with prefix,
	// or ok=false when none exists.
	MaxNumber(ctx context.Context, prefix string) (string, bool, error)
}

// ErrBadStoredNumber reports an identifier already in storage that does not
// parse as PREFIX-YYYYMMDD-N. Generation stops rather than guess a number.
var ErrBadStoredNumber = errors.New("sequence: malformed stored number")

type Options struct {
	Prefix string           // uppercase letters; "" => "ORD"
	Source Source           // required
	Now    func() time.Time // nil => time.Now; read in UTC
}

// Generator serializes number generation behind a single process-wide lock.
// The critical section is one indexed store query; do not widen it to cover
// the surrounding order-creation work, that would serialize unrelated
// traffic.
type Generator struct {
	mu     sync.Mutex
	prefix string
	source Source
	now    func() time.Time

	// last issued number, so concurrent callers racing the store insert of a
	// previously issued number still never receive a duplicate
	lastDay string
	lastN   uint64
}

func New(opts Options) (*Generator, error) {
	if opts.Source == nil {
		return nil, errors.New("sequence: source is required")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "ORD"
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < 'A' || prefix[i] > 'Z' {
			return nil, fmt.Errorf("sequence: prefix must be uppercase letters, got %q", opts.Prefix)
		}
	}
	g := &Generator{prefix: prefix, source: opts.Source, now: opts.Now}
	if g.now == nil {
		g.now = time.Now
	}
	return g, nil
}

// Next returns the next identifier for the current UTC day.
//
// Store faults and malformed stored identifiers surface as errors; handing
// out a guessed number risks a duplicate, so the caller must treat a failure
// as fatal to that order-creation attempt.
func (g *Generator) Next(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	day := g.now().UTC().Format("20060102")
	dayPrefix := g.prefix + "-" + day + "-"

	last, ok, err := g.source.MaxNumber(ctx, dayPrefix)
	if err != nil {
		return "", fmt.Errorf("sequence: max lookup: %w", err)
	}

	var n uint64 = 1
	if ok {
		tail := strings.TrimPrefix(last, dayPrefix)
		if tail == last || tail == "" {
			return "", fmt.Errorf("%w: %q", ErrBadStoredNumber, last)
		}
		prev, perr := strconv.ParseUint(tail, 10, 64)
		if perr != nil {
			return "", fmt.Errorf("%w: %q", ErrBadStoredNumber, last)
		}
		n = prev + 1
	}

	// The store reflects inserts, not issues; a number handed out but not
	// yet committed is invisible to MaxNumber. Within this process the memo
	// closes that gap (the store's unique constraint covers the rest).
	if day == g.lastDay && g.lastN >= n {
		n = g.lastN + 1
	}
	g.lastDay, g.lastN = day, n

	return fmt.Sprintf("%s%04d", dayPrefix, n), nil
}
