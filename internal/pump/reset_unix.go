//go:build unix

package pump

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isReset(err error) bool {
	return errors.Is(err, unix.ECONNRESET)
}
