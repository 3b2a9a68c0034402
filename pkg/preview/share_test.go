package preview

import (
	"fmt"
	"strings"
	"testing"

	"github.com/securevault/cli/pkg/model"
)

func testSharer(command string, runErr, clipErr error) (*Sharer, *[]string, *[]string) {
	var commands, clips []string
	sh := &Sharer{
		Command: command,
		runCommand: func(name string, args ...string) error {
			commands = append(commands, name+" "+strings.Join(args, " "))
			return runErr
		},
		writeClipboard: func(text string) error {
			clips = append(clips, text)
			return clipErr
		},
	}
	return sh, &commands, &clips
}

func TestSharePrefersConfiguredCommand(t *testing.T) {
	sh, commands, clips := testSharer("notify-send -u low", nil, nil)

	outcome, err := sh.Share(model.CatalogFile{FileName: "report.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if outcome != "shared via notify-send" {
		t.Errorf("outcome = %q", outcome)
	}
	if len(*commands) != 1 || !strings.Contains((*commands)[0], "report.pdf") {
		t.Errorf("command invocations = %v", *commands)
	}
	if len(*clips) != 0 {
		t.Error("clipboard used despite working command")
	}
}

func TestShareFallsBackToClipboard(t *testing.T) {
	sh, _, clips := testSharer("notify-send", fmt.Errorf("exec failed"), nil)

	outcome, err := sh.Share(model.CatalogFile{FileName: "report.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if outcome != "share message copied to clipboard" {
		t.Errorf("outcome = %q", outcome)
	}
	if len(*clips) != 1 || !strings.Contains((*clips)[0], "report.pdf") {
		t.Errorf("clipboard writes = %v", *clips)
	}
}

func TestShareWhitespaceCommandSkipsExec(t *testing.T) {
	sh, commands, clips := testSharer("   ", nil, nil)

	outcome, err := sh.Share(model.CatalogFile{FileName: "report.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if len(*commands) != 0 {
		t.Errorf("whitespace-only command was executed: %v", *commands)
	}
	if outcome != "share message copied to clipboard" || len(*clips) != 1 {
		t.Errorf("outcome = %q, clipboard writes = %v", outcome, *clips)
	}
}

func TestShareUnsupported(t *testing.T) {
	sh, _, _ := testSharer("", nil, fmt.Errorf("no clipboard"))

	if _, err := sh.Share(model.CatalogFile{FileName: "report.pdf"}); err == nil {
		t.Fatal("expected an error when no share path works")
	}
}
