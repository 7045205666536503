// Package debug holds assertions that are compiled in only when the
// lineflowdebug build tag is set.
package debug

import "fmt"

// Assert panics with a formatted message when Enabled and cond is false.
func Assert(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
