package ring

import "testing"

type fakeFence struct{ signaled bool }

func (f *fakeFence) Signaled() bool { return f.signaled }
func (f *fakeFence) Wait()          { f.signaled = true }

func TestNewAllocatesDistinctSlots(t *testing.T) {
	r := New(func(slot int) int { return slot * 10 })
	for i := 0; i < Size; i++ {
		if r.Slot(i) != i*10 {
			t.Errorf("slot %d = %d, want %d", i, r.Slot(i), i*10)
		}
	}
}

func TestAcquireCyclesRoundRobin(t *testing.T) {
	r := New(func(slot int) int { return slot })
	seen := make([]int, 0, Size*2)
	for i := 0; i < Size*2; i++ {
		slot, _ := r.Acquire()
		seen = append(seen, slot)
	}
	for i := 0; i < Size; i++ {
		if seen[i] != i || seen[i+Size] != i {
			t.Fatalf("expected round-robin cycle through 0..%d twice, got %v", Size-1, seen)
		}
	}
}

func TestAcquireWaitsOnPriorFence(t *testing.T) {
	r := New(func(slot int) int { return slot })
	fence := &fakeFence{signaled: false}
	slot, _ := r.Acquire()
	r.Release(slot, fence)

	for i := 0; i < Size-1; i++ {
		r.Acquire()
	}
	// Wrapping back around to `slot` should call fence.Wait, marking it signaled.
	r.Acquire()
	if !fence.signaled {
		t.Error("expected reacquiring a released slot to wait on its fence")
	}
}

func TestAllSignaledInitiallyTrue(t *testing.T) {
	r := New(func(slot int) int { return slot })
	if !r.AllSignaled() {
		t.Error("expected a freshly-built ring to report all slots signaled")
	}
}

func TestAllSignaledFalseAfterUnsignaledRelease(t *testing.T) {
	r := New(func(slot int) int { return slot })
	slot, _ := r.Acquire()
	r.Release(slot, &fakeFence{signaled: false})
	if r.AllSignaled() {
		t.Error("expected AllSignaled to be false after releasing with an unsignaled fence")
	}
}
