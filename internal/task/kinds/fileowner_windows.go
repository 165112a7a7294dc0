//go:build windows

package kinds

import "os"

// fileOwner has no Windows equivalent of a POSIX uid/gid; stat simply omits
// those fields on this platform.
func fileOwner(info os.FileInfo) (uid, gid uint32, ok bool) {
	return 0, 0, false
}
