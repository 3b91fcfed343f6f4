package gpu

import (
	"testing"

	"github.com/rivecore/rivecore/rcontext"
)

// TestBackendInitAndClose exercises the real adapter/device/queue
// acquisition path. Skipped when no compatible adapter is present,
// the same posture the pack's GPU backend tests take in CI.
func TestBackendInitAndClose(t *testing.T) {
	b := &Backend{}

	if err := b.Init(); err != nil {
		t.Skipf("GPU not available: %v (expected in CI/test environments)", err)
	}
	defer b.Close()

	if b.Name() != "wgpu" {
		t.Errorf("Name() = %q, want %q", b.Name(), "wgpu")
	}
	if b.Info() == nil {
		t.Error("expected adapter info to be populated after Init")
	}
}

// TestBackendCompileWithoutInit verifies compile() still produces a
// usable CPU-sweep program before Init runs, since NullAdapter forces
// UseCPUFallback regardless of shaderReady.
func TestBackendCompileWithoutInit(t *testing.T) {
	b := &Backend{}

	prog, err := b.compile(rcontext.PipelineKey{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p, ok := prog.(program)
	if !ok {
		t.Fatalf("compile returned %T, want program", prog)
	}
	if p.onGPU {
		t.Error("expected onGPU=false before Init runs")
	}
	if p.pipeline == nil {
		t.Fatal("expected a non-nil CPU fallback pipeline")
	}
}

// TestCompileFineShader only needs naga to parse valid WGSL; it does
// not require a GPU adapter or device.
func TestCompileFineShader(t *testing.T) {
	spirv, err := compileFineShader()
	if err != nil {
		t.Skipf("naga shader compilation unavailable: %v", err)
	}
	if len(spirv) == 0 {
		t.Error("expected non-empty SPIR-V words from a valid shader")
	}
}
