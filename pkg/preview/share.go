package preview

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/securevault/cli/pkg/model"
)

// shareTemplate is the fixed message copied when no share command is
// available.
const shareTemplate = "I shared %q with you via SecureVault. Sign in to view it."

// Sharer publishes a short share notice for a catalog file. Sharing is
// best-effort and never touches the preview resource: a configured
// share command is preferred, the clipboard is the fallback, and when
// neither works the caller gets a "sharing not supported" error.
type Sharer struct {
	// Command is an optional user-configured program that receives the
	// share message as its last argument.
	Command string

	runCommand     func(name string, args ...string) error
	writeClipboard func(text string) error
}

func NewSharer(command string) *Sharer {
	return &Sharer{
		Command: command,
		runCommand: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
		writeClipboard: clipboard.WriteAll,
	}
}

// Share publishes the notice for the given file and reports which path
// was taken.
func (sh *Sharer) Share(file model.CatalogFile) (string, error) {
	message := fmt.Sprintf(shareTemplate, file.FileName)

	if parts := strings.Fields(sh.Command); len(parts) > 0 {
		args := append(parts[1:], message)
		if err := sh.runCommand(parts[0], args...); err == nil {
			return "shared via " + parts[0], nil
		}
	}

	if err := sh.writeClipboard(message); err == nil {
		return "share message copied to clipboard", nil
	}

	return "", fmt.Errorf("sharing not supported on this system")
}
