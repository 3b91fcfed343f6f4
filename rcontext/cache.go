package rcontext

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// defaultProgramCacheSize bounds the per-context program cache so a
// client driving many distinct shader-feature/interlock-mode
// combinations across many artboards doesn't grow it unboundedly; it
// is keyed by PipelineKey's (drawType, shaderFeatures, interlockMode,
// miscFlags) tuple.
const defaultProgramCacheSize = 256

// Program is the backend-specific compiled program a PipelineKey
// resolves to. The concrete value is opaque to rcontext; backends
// (backend/cpu and future GPU backends) store whatever they need here
// (a compiled shader module id, a no-op sentinel, ...).
type Program interface{}

// ProgramCompiler resolves a PipelineKey to a Program, called only on a
// cache miss. Backends implement this; a backend that doesn't recognize
// a key combination should return a no-op Program plus no error, and
// rely on the caller's logOnce behavior rather than failing the frame.
type ProgramCompiler func(key PipelineKey) (Program, error)

// programCache wraps an LRU cache keyed by PipelineKey, with a
// logged-once fallback for keys a ProgramCompiler can't satisfy. A
// singleflight.Group collapses concurrent misses on the same key into
// one compile call, since a backend's compile step (shader translation,
// pipeline object creation) is expensive enough that two goroutines
// racing a cold PipelineKey on the same Context would otherwise both
// pay for it.
type programCache struct {
	cache    *lru.Cache
	compile  ProgramCompiler
	group    singleflight.Group
	warnedOn map[PipelineKey]bool
	onNoop   func(key PipelineKey)
}

func newProgramCache(compile ProgramCompiler, onNoop func(PipelineKey)) *programCache {
	c, _ := lru.New(defaultProgramCacheSize)
	return &programCache{
		cache:    c,
		compile:  compile,
		warnedOn: make(map[PipelineKey]bool),
		onNoop:   onNoop,
	}
}

// lookup returns the Program for key, compiling and caching it on a
// miss. A compile error is swallowed in favor of a nil Program so the
// draw pass can substitute a no-op program and log the key exactly
// once, matching the "swaps in a noop program and logs once per
// program-key" fallback behavior.
func (c *programCache) lookup(key PipelineKey) Program {
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v, err, _ := c.group.Do(keyGroupName(key), func() (interface{}, error) {
		return c.compile(key)
	})
	if err != nil || v == nil {
		if !c.warnedOn[key] {
			c.warnedOn[key] = true
			if c.onNoop != nil {
				c.onNoop(key)
			}
		}
		return nil
	}
	c.cache.Add(key, v)
	return v
}

// keyGroupName renders a PipelineKey to a singleflight.Group call key.
// This only runs on a cache miss, not per pixel, so a plain Sprintf is
// fine.
func keyGroupName(key PipelineKey) string {
	return fmt.Sprintf("%d-%d-%d-%d", key.DrawType, key.ShaderFeatures, key.Mode, key.MiscFlags)
}

// Purge drops every cached program, called by ReleaseResources.
func (c *programCache) Purge() {
	c.cache.Purge()
	c.warnedOn = make(map[PipelineKey]bool)
}
