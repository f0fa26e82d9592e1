package parser

import (
	"github.com/gnana997/sfcdoc/pkg/util"
)

// getDefaultPoolSize returns the number of parsers kept per grammar.
//
// It MUST match the worker pool size used for batch scans so workers never
// block waiting for a parser; both delegate to util.GetOptimalPoolSize.
func getDefaultPoolSize() int {
	return util.GetOptimalPoolSize()
}
