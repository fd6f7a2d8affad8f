// Package console is the admin-console collaborator: a detached terminal
// session the server runs inside, to which operator commands can be typed.
package console

import (
	"os/exec"
	"strings"

	"github.com/SourceServerManager/srcds-agent/app/utils"
)

// Console is the contract lifecycle operations use. Sends are best-effort:
// a missing session is not an error.
type Console interface {
	Launch(scriptPath string) error
	Send(command string) error
	HasSession() bool
}

// TmuxConsole drives a tmux session. The server process is documented to
// survive loss of its controlling terminal, which is why force-kill goes
// through the socket table instead of the session.
type TmuxConsole struct {
	Session string
}

func New(session string) *TmuxConsole {
	return &TmuxConsole{Session: session}
}

func (c *TmuxConsole) Launch(scriptPath string) error {
	utils.DebugLogger.Printf("Launching %s in tmux session %q\r\n", scriptPath, c.Session)

	cmd := exec.Command("tmux", "new-session", "-d", "-s", c.Session, scriptPath)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		utils.ErrorLogger.Printf("tmux session start failed: %s\r\n", strings.TrimSpace(stderr.String()))
		return err
	}

	return nil
}

func (c *TmuxConsole) Send(command string) error {
	if !c.HasSession() {
		utils.DebugLogger.Printf("Console session %q is gone, dropping command %q\r\n", c.Session, command)
		return nil
	}

	return exec.Command("tmux", "send-keys", "-t", c.Session, command, "C-m").Run()
}

func (c *TmuxConsole) HasSession() bool {
	return exec.Command("tmux", "has-session", "-t", c.Session).Run() == nil
}
