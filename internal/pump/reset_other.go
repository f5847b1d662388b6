//go:build !unix && !windows

package pump

// No reset errno on these platforms; resets surface as ReadError.
func isReset(err error) bool { return false }
