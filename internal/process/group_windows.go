//go:build windows

package process

import (
	"os/exec"
	"strconv"
	"syscall"
)

func isolate(command *exec.Cmd) {
	command.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// killGroup kills the command and every process it spawned
func killGroup(command *exec.Cmd) error {
	if command.Process == nil {
		return nil
	}

	pid := strconv.Itoa(command.Process.Pid)
	return exec.Command("taskkill", "/T", "/F", "/PID", pid).Run()
}
