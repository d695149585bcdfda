package cpu

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// wideVectors selects the unrolled inner kernels when the host exposes
// vector units wide enough for the compiler to profit from them.
var wideVectors bool

func init() {
	wideVectors = (cpu.X86.HasAVX2 && cpu.X86.HasFMA) ||
		cpu.X86.HasAVX512F ||
		cpu.ARM64.HasASIMD
}

// VectorExtensions returns a human-readable summary of the SIMD extensions
// the engine detected on this host.
func VectorExtensions() string {
	var features []string

	if cpu.X86.HasSSE42 {
		features = append(features, "SSE4.2")
	}
	if cpu.X86.HasAVX {
		features = append(features, "AVX")
	}
	if cpu.X86.HasAVX2 {
		features = append(features, "AVX2")
	}
	if cpu.X86.HasFMA {
		features = append(features, "FMA")
	}
	if cpu.X86.HasAVX512F {
		features = append(features, "AVX512F")
	}
	if cpu.ARM64.HasASIMD {
		features = append(features, "ASIMD")
	}

	if len(features) == 0 {
		return "no SIMD extensions detected"
	}
	return strings.Join(features, ", ")
}
