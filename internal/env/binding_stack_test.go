package env

import (
	"testing"

	"corevm/internal/value"
)

func TestStackPushPopOrder(t *testing.T) {
	s := NewStack()
	s.Push(FrameEntry(1, 0))
	s.Push(MarkEntry())
	if s.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", s.Depth())
	}
	top, ok := s.Pop()
	if !ok || top.Kind != EntryMark {
		t.Errorf("Pop() = %+v, want EntryMark on top", top)
	}
	if s.Depth() != 1 {
		t.Errorf("Depth() after pop = %d, want 1", s.Depth())
	}
}

func TestTruncateReleasesResourcesLIFO(t *testing.T) {
	s := NewStack()
	var order []int
	s.Push(ResourceEntry(func() { order = append(order, 1) }))
	s.Push(ResourceEntry(func() { order = append(order, 2) }))
	s.Push(ResourceEntry(func() { order = append(order, 3) }))

	s.Truncate(0)

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("release order = %v, want [3 2 1]", order)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth() after Truncate(0) = %d, want 0", s.Depth())
	}
}

func TestFindHandlerNearest(t *testing.T) {
	s := NewStack()
	s.Push(HandlerEntry(10, 0))
	s.Push(FrameEntry(1, 0))
	s.Push(HandlerEntry(20, 2))

	depth, e, ok := s.FindHandler()
	if !ok || depth != 2 || e.PC != 20 {
		t.Errorf("FindHandler() = depth %d entry %+v, want the nearer handler at depth 2 pc 20", depth, e)
	}
}

func TestFindHandlerNone(t *testing.T) {
	s := NewStack()
	s.Push(FrameEntry(1, 0))
	if _, _, ok := s.FindHandler(); ok {
		t.Error("FindHandler() found a handler when none was pushed")
	}
}

func TestFindCatchMatchesByTag(t *testing.T) {
	s := NewStack()
	tagA := value.NewSymbol("a").AsValue()
	tagB := value.NewSymbol("b").AsValue()

	s.Push(CatchEntry(tagA, 1, 0))
	s.Push(CatchEntry(tagB, 2, 1))

	depth, e, ok := s.FindCatch(tagA)
	if !ok || depth != 0 || e.PC != 1 {
		t.Errorf("FindCatch(tagA) = depth %d entry %+v, want depth 0 pc 1", depth, e)
	}

	if _, _, ok := s.FindCatch(value.NewSymbol("a").AsValue()); ok {
		t.Error("FindCatch matched a tag that was never pushed (should be Eq, not equal-by-name)")
	}
}
