// Package interval provides arithmetic over half-open time intervals [Start, End).
// An interval with End <= Start is considered empty and is discarded by all
// operations. All functions are pure and never mutate their arguments.
package interval

import "time"

// Interval is a half-open span [Start, End) of absolute instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New creates an interval; callers are expected to check IsEmpty where needed.
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// IsEmpty returns true if the interval contains no instants (End <= Start).
func (iv Interval) IsEmpty() bool {
	return !iv.End.After(iv.Start)
}

// Duration returns the length of the interval (zero for empty intervals).
func (iv Interval) Duration() time.Duration {
	if iv.IsEmpty() {
		return 0
	}
	return iv.End.Sub(iv.Start)
}

// Contains returns true iff iv fully covers inner:
// iv.Start <= inner.Start && iv.End >= inner.End.
func (iv Interval) Contains(inner Interval) bool {
	return !iv.Start.After(inner.Start) && !iv.End.Before(inner.End)
}

// ContainsInstant returns true iff t lies inside the half-open span.
func (iv Interval) ContainsInstant(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Overlaps returns true iff the two intervals share at least one instant:
// a.Start < b.End && b.Start < a.End. Touching boundaries do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Intersect returns the common span of a and b. The second return value is
// false when the intersection is empty.
func Intersect(a, b Interval) (Interval, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	out := Interval{Start: start, End: end}
	if out.IsEmpty() {
		return Interval{}, false
	}
	return out, true
}

// Subtract removes every blocking interval from the free set. Each blocking
// interval splits overlapped free intervals into the up-to-two remaining
// pieces; empty pieces are dropped. The order of blocking intervals does not
// affect the result, and an empty blocking set is a no-op.
func Subtract(free, blocking []Interval) []Interval {
	out := make([]Interval, 0, len(free))
	for _, iv := range free {
		if !iv.IsEmpty() {
			out = append(out, iv)
		}
	}

	for _, blk := range blocking {
		if blk.IsEmpty() {
			continue
		}
		next := make([]Interval, 0, len(out))
		for _, iv := range out {
			if !iv.Overlaps(blk) {
				next = append(next, iv)
				continue
			}
			left := Interval{Start: iv.Start, End: blk.Start}
			if !left.IsEmpty() {
				next = append(next, left)
			}
			right := Interval{Start: blk.End, End: iv.End}
			if !right.IsEmpty() {
				next = append(next, right)
			}
		}
		out = next
	}

	return out
}
