package project

import (
	"os/exec"
	"strings"
)

// resolveGitSHA returns the HEAD commit of the repository containing dir, or
// "" when dir is not inside a git work tree or git is unavailable.
func resolveGitSHA(dir string) string {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
