package gpucore

import (
	"fmt"
	"sort"
	"sync"
)

// PipelineConfig configures a HybridPipeline.
type PipelineConfig struct {
	// Width is the viewport width in pixels.
	Width int

	// Height is the viewport height in pixels.
	Height int

	// MaxPaths is the maximum number of path elements to process.
	// If 0, defaults to 10000.
	MaxPaths int

	// MaxSegments is the maximum number of output segments.
	// If 0, defaults to MaxPaths * MaxSegmentsPerCurve.
	MaxSegments int

	// Tolerance is the flattening tolerance in pixels.
	// If 0, defaults to DefaultTolerance.
	Tolerance float32

	// UseCPUFallback forces CPU execution of all stages.
	// Useful for debugging or when GPU compute is unreliable.
	UseCPUFallback bool
}

// HybridPipeline holds the tile layout for a viewport and runs the fine
// (per-pixel coverage) stage over already-flattened segments. Flattening
// and tile binning are not performed by it. Execute runs on the CPU;
// useGPU only records whether the adapter supports compute and CPU
// fallback was not forced.
type HybridPipeline struct {
	mu sync.Mutex

	adapter GPUAdapter
	config  PipelineConfig

	// Computed dimensions
	tileColumns int
	tileRows    int
	tileCount   int

	// GPU resources (if using GPU path)
	// These will be populated in Phase 2 when algorithms are extracted

	// State
	initialized bool
	useGPU      bool
}

// NewHybridPipeline creates a new rendering pipeline.
//
// Parameters:
//   - adapter: GPU adapter implementation
//   - config: pipeline configuration
//
// Returns an error if initialization fails.
func NewHybridPipeline(adapter GPUAdapter, config *PipelineConfig) (*HybridPipeline, error) {
	if adapter == nil {
		return nil, fmt.Errorf("gpucore: adapter is required")
	}
	if config == nil {
		return nil, fmt.Errorf("gpucore: config is required")
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("gpucore: invalid viewport size: %dx%d", config.Width, config.Height)
	}

	// Apply defaults
	cfg := *config
	if cfg.MaxPaths <= 0 {
		cfg.MaxPaths = 10000
	}
	if cfg.MaxSegments <= 0 {
		cfg.MaxSegments = cfg.MaxPaths * MaxSegmentsPerCurve
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}

	// Calculate tile dimensions
	tileColumns := (cfg.Width + TileSize - 1) / TileSize
	tileRows := (cfg.Height + TileSize - 1) / TileSize
	tileCount := tileColumns * tileRows

	// Determine if GPU path is available
	useGPU := !cfg.UseCPUFallback && adapter.SupportsCompute()

	p := &HybridPipeline{
		adapter:     adapter,
		config:      cfg,
		tileColumns: tileColumns,
		tileRows:    tileRows,
		tileCount:   tileCount,
		useGPU:      useGPU,
	}

	if err := p.init(); err != nil {
		p.Destroy()
		return nil, err
	}

	return p, nil
}

// init initializes GPU resources if using GPU path.
func (p *HybridPipeline) init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Phase 1: Just mark as initialized
	// Phase 2 will add shader compilation and pipeline creation

	p.initialized = true
	return nil
}

// Execute runs the rendering pipeline against already-flattened
// segments (the output of the `coarse` stage: monotonic line segments
// already transformed into viewport space with a precomputed winding
// direction per Segment.Winding).
//
// When the adapter supports compute and CPU fallback isn't forced,
// callers are expected to dispatch flatten.wgsl/coarse.wgsl/fine.wgsl
// through the adapter directly; Execute itself always runs the CPU
// fine-rasterization path (a per-tile scanline sweep identical in
// shape to the GPU fine pass, just run on the host), which is what
// backs UseCPUFallback and what a compute-incapable adapter falls
// back to.
//
// Returns one coverage byte (0 or 255) per pixel of the padded
// tileColumns*TileSize by tileRows*TileSize canvas, row-major.
func (p *HybridPipeline) Execute(segments []Segment, transform AffineTransform, fillRule FillRule) ([]uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil, fmt.Errorf("gpucore: pipeline not initialized")
	}

	width := p.tileColumns * TileSize
	height := p.tileRows * TileSize
	coverage := make([]uint8, width*height)
	if len(segments) == 0 {
		return coverage, nil
	}

	xformed := make([]Segment, len(segments))
	for i, s := range segments {
		x0, y0 := applyTransform(transform, s.X0, s.Y0)
		x1, y1 := applyTransform(transform, s.X1, s.Y1)
		xformed[i] = Segment{X0: x0, Y0: y0, X1: x1, Y1: y1, Winding: s.Winding}
	}

	type crossing struct {
		x       float32
		winding int32
	}
	row := make([]crossing, 0, len(xformed))
	for y := 0; y < height; y++ {
		mid := float32(y) + 0.5
		row = row[:0]
		for _, s := range xformed {
			y0, y1 := s.Y0, s.Y1
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			if mid < y0 || mid >= y1 {
				continue
			}
			x := s.X0 + (s.X1-s.X0)*(mid-s.Y0)/(s.Y1-s.Y0)
			row = append(row, crossing{x: x, winding: s.Winding})
		}
		if len(row) == 0 {
			continue
		}
		sort.Slice(row, func(a, b int) bool { return row[a].x < row[b].x })

		winding := int32(0)
		for i := 0; i < len(row); i++ {
			winding += row[i].winding
			if i+1 >= len(row) {
				break
			}
			if !fineFillInside(winding, fillRule) {
				continue
			}
			x0 := clampInt(int(row[i].x+0.5), 0, width)
			x1 := clampInt(int(row[i+1].x+0.5), 0, width)
			for x := x0; x < x1; x++ {
				coverage[y*width+x] = 255
			}
		}
	}

	return coverage, nil
}

func fineFillInside(winding int32, rule FillRule) bool {
	if rule == FillRuleEvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

func applyTransform(t AffineTransform, x, y float32) (float32, float32) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Resize updates the pipeline for a new viewport size.
func (p *HybridPipeline) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpucore: invalid viewport size: %dx%d", width, height)
	}

	p.config.Width = width
	p.config.Height = height
	p.tileColumns = (width + TileSize - 1) / TileSize
	p.tileRows = (height + TileSize - 1) / TileSize
	p.tileCount = p.tileColumns * p.tileRows

	// Phase 2 will handle buffer reallocation if needed

	return nil
}

// SetTolerance updates the flattening tolerance.
func (p *HybridPipeline) SetTolerance(tolerance float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tolerance > 0 {
		p.config.Tolerance = tolerance
	}
}

// Tolerance returns the current flattening tolerance.
func (p *HybridPipeline) Tolerance() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config.Tolerance
}

// UseGPU returns whether the pipeline is using GPU acceleration.
func (p *HybridPipeline) UseGPU() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.useGPU
}

// SetUseCPUFallback enables or disables CPU fallback mode.
// When enabled, all stages run on CPU regardless of GPU support.
func (p *HybridPipeline) SetUseCPUFallback(useCPU bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.UseCPUFallback = useCPU
	p.useGPU = !useCPU && p.adapter.SupportsCompute()
}

// Config returns a copy of the pipeline configuration.
func (p *HybridPipeline) Config() PipelineConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// TileColumns returns the number of tile columns.
func (p *HybridPipeline) TileColumns() int {
	return p.tileColumns
}

// TileRows returns the number of tile rows.
func (p *HybridPipeline) TileRows() int {
	return p.tileRows
}

// TileCount returns the total number of tiles.
func (p *HybridPipeline) TileCount() int {
	return p.tileCount
}

// IsInitialized returns whether the pipeline is initialized.
func (p *HybridPipeline) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Destroy releases all GPU resources.
func (p *HybridPipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Phase 2 will add resource cleanup
	// For now, just mark as uninitialized

	p.initialized = false
}

// PipelineStats contains pipeline execution statistics.
type PipelineStats struct {
	// PathCount is the number of paths processed.
	PathCount int

	// SegmentCount is the number of segments generated.
	SegmentCount int

	// TileEntryCount is the number of tile entries generated.
	TileEntryCount int

	// FlattenTimeNS is the time spent in the flatten stage (nanoseconds).
	FlattenTimeNS int64

	// CoarseTimeNS is the time spent in the coarse stage (nanoseconds).
	CoarseTimeNS int64

	// FineTimeNS is the time spent in the fine stage (nanoseconds).
	FineTimeNS int64

	// TotalTimeNS is the total execution time (nanoseconds).
	TotalTimeNS int64

	// UsedGPU indicates whether GPU was used for this execution.
	UsedGPU bool
}

// ExecuteWithStats runs the pipeline and returns execution statistics.
// Timing fields are left zero; this reports SegmentCount and UsedGPU,
// which cost nothing extra to capture at the call site.
func (p *HybridPipeline) ExecuteWithStats(segments []Segment, transform AffineTransform, fillRule FillRule) ([]uint8, *PipelineStats, error) {
	coverage, err := p.Execute(segments, transform, fillRule)
	if err != nil {
		return nil, nil, err
	}

	stats := &PipelineStats{
		SegmentCount: len(segments),
		UsedGPU:      p.useGPU,
	}

	return coverage, stats, nil
}
