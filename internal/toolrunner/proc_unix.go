//go:build !windows

package toolrunner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child in its own process group so that `go run`
// and the binary it builds are stopped together.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, sig)
}
