//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// isolate starts the command in a process group of its own so that its
// descendants can be signalled together
func isolate(command *exec.Cmd) {
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killGroup kills the whole process group led by the command
func killGroup(command *exec.Cmd) error {
	if command.Process == nil {
		return nil
	}

	return syscall.Kill(-command.Process.Pid, syscall.SIGKILL)
}
