// Package gcroot supplies the VM's GC-safepoint bookkeeping: root-range
// registration for the operand stack and binding stack, an allocation
// counter that gates when a safepoint should actually invoke the
// collector, and occupancy logging for diagnostics.
//
// The collector itself is Go's own: this package only tracks the two
// host-visible root ranges a conservative or precise external collector
// would need and the threshold/counter bookkeeping the VM's dispatch loop
// consults at each safepoint.
package gcroot

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// RootRange describes one contiguous root range the VM exposes: Len
// reports how many live Value slots are currently in [0, Len()).
type RootRange struct {
	Name string
	Len  func() int
}

// Roots is the pair of root ranges the VM registers at startup: the
// operand stack and the binding stack, walked at each GC safepoint.
type Roots struct {
	Operand RootRange
	Binding RootRange
}

// Tracker counts bytes/objects allocated since the last collection and
// decides, at each safepoint, whether the threshold has been crossed.
type Tracker struct {
	roots     Roots
	threshold uint64
	allocated uint64
	collections uint64
}

func NewTracker(roots Roots, threshold uint64) *Tracker {
	return &Tracker{roots: roots, threshold: threshold}
}

// Allocate records n bytes of new allocation. The VM's own heap
// constructors (CONS, ENCLOSE, numeric widening) do not call it; the
// counter moves only when a host calls Allocate.
func (t *Tracker) Allocate(n uint64) { t.allocated += n }

// ShouldCollect reports whether the allocation counter has crossed the
// threshold since the last ResetSinceLastCollection.
func (t *Tracker) ShouldCollect() bool { return t.allocated >= t.threshold }

// ResetSinceLastCollection zeroes the allocation counter and bumps the
// collection count; the VM calls it at a safepoint once ShouldCollect
// reports true, without itself invoking any collector.
func (t *Tracker) ResetSinceLastCollection() {
	t.allocated = 0
	t.collections++
}

// Occupancy renders a human-readable snapshot of root sizes and
// allocation pressure for trace/debug output.
func (t *Tracker) Occupancy() string {
	return fmt.Sprintf(
		"%s=%d %s=%d allocated=%s threshold=%s collections=%d",
		t.roots.Operand.Name, t.roots.Operand.Len(),
		t.roots.Binding.Name, t.roots.Binding.Len(),
		humanize.Bytes(t.allocated), humanize.Bytes(t.threshold), t.collections,
	)
}
