//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid, taking the
// browser's renderer and GPU helpers down with it. Non-positive PIDs are
// ignored: 0 and negative values address the caller's own group.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
