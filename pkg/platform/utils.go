package platform

import "os/exec"

// lookPath is swapped out in tests
var lookPath = exec.LookPath

// nixCommands are the binaries of a nix installation on a foreign distro
var nixCommands = []string{"nix-env", "nix"}

// hasAnyCommand reports whether one of cmds is on PATH
func hasAnyCommand(cmds ...string) bool {
	for _, cmd := range cmds {
		if _, err := lookPath(cmd); err == nil {
			return true
		}
	}
	return false
}
