//go:build !windows

package kinds

import (
	"os"
	"syscall"
)

// fileOwner extracts the owning uid/gid from info, when the platform's
// os.FileInfo.Sys() exposes them (spec.md §6 stat output fields uid/gid).
func fileOwner(info os.FileInfo) (uid, gid uint32, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return stat.Uid, stat.Gid, true
}
