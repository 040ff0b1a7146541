package stack

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persistent.stack'.
func tracer() tracing.Trace {
	return tracing.Select("persistent.stack")
}
