package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/fine.wgsl
var fineShaderWGSL string

// compileFineShader compiles the fine-rasterization shader to SPIR-V,
// the same naga.Compile call the pack's GPU backends use to turn WGSL
// into a shader module the device can load.
func compileFineShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(fineShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile fine shader: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}
