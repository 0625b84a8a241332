package emit

import (
	"math"
	"strconv"
)

// formatFloat32 mirrors the original's "{val:.10g}" formatting for .float
// literals.
func formatFloat32(word uint32) string {
	return strconv.FormatFloat(float64(math.Float32frombits(word)), 'g', 10, 32)
}

// formatFloat64 mirrors "{val:.18g}" for .double literals.
func formatFloat64(bits uint64) string {
	return strconv.FormatFloat(math.Float64frombits(bits), 'g', 18, 64)
}
