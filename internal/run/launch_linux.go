//go:build linux

package run

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr sets Linux-specific process attributes on cmd.
// Pdeathsig delivers SIGTERM to the child when its parent dies, preventing
// orphaned processes if the calling program is killed abruptly.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
}
