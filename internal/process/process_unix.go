//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate starts cmd in its own process group so KillProcessGroup reaches
// every child it spawns (npx forks node, which may fork again).
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup sends SIGKILL to the process group led by pid.
func KillProcessGroup(pid int) {
	// Best-effort; the caller still waits on the command.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
