package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vkotelnikov/autopark/internal/permissions"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the console loop needs.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	perms() permissions.Set
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	List(ctx context.Context) error
	Create(ctx context.Context) error
	Update(ctx context.Context) error
	Delete(ctx context.Context) error
	Logs(ctx context.Context, args []string) error
	PurgeSessions(ctx context.Context) error
}

func (a *App) perms() permissions.Set {
	if a.current == nil {
		return permissions.Set{}
	}
	return a.current.Permissions
}

func (a *App) getStatus() string {
	if a.current == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s) ", a.current.Username, a.current.Role)
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Autopark admin console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	_ = a.Login(ctx)

	for {
		fmt.Printf("autopark %s> ", a.getStatus())
		if !scanner.Scan() {
			return
		}
		if !runCommand(ctx, a, scanner.Text()) {
			return
		}
	}
}

// runCommand dispatches one console line. It returns false when the loop
// should exit. Commands the operator's permission set does not cover are
// rejected before any prompt is shown.
func runCommand(ctx context.Context, a execIface, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := parts[0]
	args := parts[1:]

	if !a.isLoggedIn() {
		switch cmd {
		case "help":
			printlnFn("Available commands: login, exit")
		case "login":
			_ = a.Login(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return false
		default:
			printlnFn("Log in first")
		}
		return true
	}

	p := a.perms()

	switch cmd {
	case "help":
		cmds := []string{"whoami", "passwd"}
		if p.CanManageUsers {
			cmds = append(cmds, "list", "create", "update", "delete")
		}
		if p.CanViewLogs {
			cmds = append(cmds, "logs [n]", "purge-sessions")
		}
		cmds = append(cmds, "logout", "exit")
		printlnFn("Available commands: " + strings.Join(cmds, ", "))

	case "whoami":
		_ = a.Whoami(ctx)

	case "passwd":
		_ = a.ChangePassword(ctx)

	case "list":
		if !p.CanManageUsers {
			printlnFn("Permission denied")
			return true
		}
		_ = a.List(ctx)

	case "create":
		if !p.CanManageUsers {
			printlnFn("Permission denied")
			return true
		}
		_ = a.Create(ctx)

	case "update":
		if !p.CanManageUsers {
			printlnFn("Permission denied")
			return true
		}
		_ = a.Update(ctx)

	case "delete":
		if !p.CanManageUsers {
			printlnFn("Permission denied")
			return true
		}
		_ = a.Delete(ctx)

	case "logs":
		if !p.CanViewLogs {
			printlnFn("Permission denied")
			return true
		}
		_ = a.Logs(ctx, args)

	case "purge-sessions":
		if !p.CanViewLogs {
			printlnFn("Permission denied")
			return true
		}
		_ = a.PurgeSessions(ctx)

	case "login":
		_ = a.Login(ctx)

	case "logout":
		_ = a.Logout(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return false

	default:
		printlnFn("Unknown command:", cmd)
	}
	return true
}
