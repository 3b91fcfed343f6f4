package rcontext

import (
	"github.com/rivecore/rivecore/internal/ring"
	"github.com/rivecore/rivecore/target"
)

// BufferKind distinguishes the GPU buffers rcontext ring-buffers per
// frame. Each kind gets its own ring of kBufferRingSize (internal/ring.Size)
// parallel copies so the CPU can fill the next slot while the GPU still
// reads the previous one.
type BufferKind uint8

const (
	BufferKindVertex BufferKind = iota
	BufferKindIndex
	BufferKindUniform
	BufferKindStorage
	BufferKindGradientRamp
	BufferKindTessellation
	bufferKindCount
)

// RenderBuffer is the factory-produced handle MakeRenderBuffer returns.
// It grows by appending; Reset rewinds the write cursor to 0 without
// releasing the backing array, so the same allocation is reused every
// time its ring slot comes back around.
type RenderBuffer struct {
	Kind BufferKind
	data []byte
	len  int
}

func newRenderBuffer(kind BufferKind) *RenderBuffer {
	return &RenderBuffer{Kind: kind}
}

// Reset rewinds the buffer to empty without releasing capacity.
func (b *RenderBuffer) Reset() { b.len = 0 }

// Write appends p, growing the backing array if needed, and returns the
// byte offset p was written at (the value a draw batch stores to locate
// its data within the shared buffer).
func (b *RenderBuffer) Write(p []byte) int {
	offset := b.len
	needed := b.len + len(p)
	if needed > cap(b.data) {
		grown := make([]byte, needed, needed*2+16)
		copy(grown, b.data[:b.len])
		b.data = grown
	} else {
		b.data = b.data[:needed]
	}
	copy(b.data[offset:needed], p)
	b.len = needed
	return offset
}

// Bytes returns the buffer's written region.
func (b *RenderBuffer) Bytes() []byte { return b.data[:b.len] }

// Len reports the number of bytes written since the last Reset.
func (b *RenderBuffer) Len() int { return b.len }

// bufferRings holds one ring.Ring[*RenderBuffer] per BufferKind,
// created lazily so a context that never uses, say, BufferKindStorage
// never allocates its ring.
type bufferRings struct {
	rings [bufferKindCount]*ring.Ring[*RenderBuffer]
}

func (br *bufferRings) ringFor(kind BufferKind) *ring.Ring[*RenderBuffer] {
	if br.rings[kind] == nil {
		k := kind
		br.rings[kind] = ring.New(func(int) *RenderBuffer { return newRenderBuffer(k) })
	}
	return br.rings[kind]
}

// acquire rotates kind's ring to its next slot, waiting on that slot's
// prior fence, and returns the (now-reset) buffer to write this frame's
// data into.
func (br *bufferRings) acquire(kind BufferKind) (slot int, buf *RenderBuffer) {
	r := br.ringFor(kind)
	slot, buf = r.Acquire()
	buf.Reset()
	return slot, buf
}

// release associates fence with kind's slot so a future acquire of the
// same slot waits on it before reuse.
func (br *bufferRings) release(kind BufferKind, slot int, fence ring.Fence) {
	br.ringFor(kind).Release(slot, fence)
}

// ImageTexture is the factory-produced handle MakeImageTexture returns,
// wrapping a CPU-side image paint and (when a GPU backend is active) a
// target.TextureView for sampling from shaders.
type ImageTexture struct {
	Width, Height int
	Pixels        []byte // RGBA8, premultiplied
	View          target.TextureView
}
