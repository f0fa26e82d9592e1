package util

import "runtime"

// GetOptimalPoolSize returns min(max(NumCPU*2, 4), 32).
//
// Parsing goes through cgo, so twice the core count keeps cores busy while
// goroutines sit in cgo calls. It sizes both the parser pools and the scan
// worker pool.
func GetOptimalPoolSize() int {
	return min(max(runtime.NumCPU()*2, 4), 32)
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
