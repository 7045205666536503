//go:build !lineflowdebug

package debug

// Enabled reports whether debug assertions are active.
const Enabled = false
