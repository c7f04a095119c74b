//go:build !windows

package process

import "os/exec"

func isolated(cmd *exec.Cmd) bool { return cmd.SysProcAttr.Setpgid }
