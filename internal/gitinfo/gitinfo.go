// Package gitinfo reads repository metadata through the git executable.
package gitinfo

import (
	"context"
	"os/exec"
	"strings"

	"github.com/temirov/autoreadme/internal/utils"
)

const gitExecutableName = "git"

var remoteOriginArguments = []string{"config", "--get", "remote.origin.url"}

// RemoteOriginURL returns the origin remote configured for the repository
// containing directory. It returns an empty string outside a repository, when
// git is unavailable or when no origin is configured.
func RemoteOriginURL(ctx context.Context, directory string) string {
	repositoryRoot, findError := utils.FindGitDirectory(directory)
	if findError != nil || repositoryRoot == "" {
		return ""
	}
	// #nosec G204
	configCommand := exec.CommandContext(ctx, gitExecutableName, remoteOriginArguments...)
	configCommand.Dir = repositoryRoot
	output, runError := configCommand.Output()
	if runError != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
