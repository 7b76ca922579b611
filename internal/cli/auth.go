package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/vkotelnikov/autopark/internal/auth"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the store.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer wipe(password)

	view, err := a.service.Authenticate(ctx, username, string(password), nil)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountLocked):
			log.Printf("Account is temporarily locked, try again later")
		case errors.Is(err, auth.ErrInvalidCredentials):
			log.Printf("Invalid username or password")
		default:
			log.Printf("Login failed: %s", err.Error())
		}
		return err
	}

	a.current = view
	fmt.Printf("Welcome, %s (%s)\n", view.FullName, view.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.current = nil
	fmt.Println("Logged out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	if a.current == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (%s), role %s\n", a.current.Username, a.current.FullName, a.current.Role)
	p := a.current.Permissions
	fmt.Printf("  manage users: %v, manage vehicles: %v, manage routes: %v\n",
		p.CanManageUsers, p.CanManageVehicles, p.CanManageRoutes)
	fmt.Printf("  view reports: %v, export data: %v, view logs: %v\n",
		p.CanViewReports, p.CanExportData, p.CanViewLogs)
	return nil
}

// ChangePassword lets the logged-in operator rotate their own password.
// The old password is required again even inside an active console session.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword(os.Stdout, "Enter current password")
	if err != nil {
		return err
	}
	defer wipe(oldPassword)

	newPassword, err := getPassword(os.Stdout, "Enter new password")
	if err != nil {
		return err
	}
	defer wipe(newPassword)

	if err := a.service.ChangePassword(ctx, a.current.Username, string(oldPassword), string(newPassword)); err != nil {
		log.Printf("Password change failed: %s", err.Error())
		return err
	}
	fmt.Println("Password changed")
	return nil
}
