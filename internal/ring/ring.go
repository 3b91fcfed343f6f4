// Package ring implements a fixed-size ring of parallel GPU resource
// copies, each guarded by a fence so the CPU can keep writing to a new
// copy while the GPU still reads from an older one, without waiting on
// every frame.
package ring

// Size is the number of parallel copies kept in a ring. Three is
// enough to keep the CPU two frames ahead of the GPU without the
// memory cost of unbounded buffering.
const Size = 3

// Fence reports whether the GPU work that last used a ring slot has
// completed, so the slot's underlying resource is safe to reuse.
type Fence interface {
	// Signaled reports whether the GPU has finished using this slot.
	Signaled() bool
	// Wait blocks until the GPU has finished using this slot.
	Wait()
}

// noFence is used for a slot that has never been submitted to the GPU
// and therefore needs no wait before first use.
type noFence struct{}

func (noFence) Signaled() bool { return true }
func (noFence) Wait()          {}

// Ring holds Size parallel copies of a GPU resource of type T, cycling
// through them round-robin and waiting on a slot's fence only when that
// slot is about to be reused.
type Ring[T any] struct {
	slots  [Size]T
	fences [Size]Fence
	next   int
}

// New builds a Ring whose slots are produced by calling make for each
// index 0..Size-1 (e.g. allocating a distinct GPU buffer per slot).
func New[T any](make func(slot int) T) *Ring[T] {
	r := &Ring[T]{}
	for i := 0; i < Size; i++ {
		r.slots[i] = make(i)
		r.fences[i] = noFence{}
	}
	return r
}

// Acquire waits for the next slot's prior GPU use (if any) to finish,
// then returns that slot's resource for the caller to write into.
func (r *Ring[T]) Acquire() (slot int, resource T) {
	slot = r.next
	r.next = (r.next + 1) % Size
	r.fences[slot].Wait()
	return slot, r.slots[slot]
}

// Release associates fence with slot, so a future Acquire of the same
// slot waits on fence before reuse. Call this right after submitting
// the GPU work that reads the slot's resource.
func (r *Ring[T]) Release(slot int, fence Fence) {
	if fence == nil {
		fence = noFence{}
	}
	r.fences[slot] = fence
}

// Slot returns the resource currently held at slot without acquiring
// or waiting, for read-only inspection.
func (r *Ring[T]) Slot(slot int) T {
	return r.slots[slot]
}

// AllSignaled reports whether every slot's fence has completed, used
// to decide it's safe to fully reset the ring (e.g. on resize).
func (r *Ring[T]) AllSignaled() bool {
	for _, f := range r.fences {
		if !f.Signaled() {
			return false
		}
	}
	return true
}
