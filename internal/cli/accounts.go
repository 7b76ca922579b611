package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/vkotelnikov/autopark/internal/auth"
	"github.com/vkotelnikov/autopark/internal/models"
)

func (a *App) List(ctx context.Context) error {
	list, err := a.service.ListAccounts(ctx)
	if err != nil {
		log.Printf("Listing failed: %s", err.Error())
		return err
	}
	for _, acc := range list {
		status := "active"
		if !acc.IsActive {
			status = "disabled"
		}
		lastLogin := "never"
		if acc.LastLogin != nil {
			lastLogin = acc.LastLogin.Format("2006-01-02 15:04")
		}
		fmt.Printf("%4d  %-16s %-6s %-8s last login %s  %s\n",
			acc.ID, acc.Username, acc.Role, status, lastLogin, acc.FullName)
	}
	return nil
}

func (a *App) Create(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer wipe(password)
	role, err := getSimpleText(a.reader, "Enter role (admin or user)", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	summary, err := a.service.CreateAccount(ctx, auth.CreateAccountParams{
		Username: username,
		Password: string(password),
		Role:     models.Role(role),
		FullName: fullName,
		Email:    email,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateUsername):
			log.Printf("Username %q is already taken", username)
		case errors.Is(err, auth.ErrInvalidRole):
			log.Printf("Unknown role %q", role)
		default:
			log.Printf("Creation failed: %s", err.Error())
		}
		return err
	}
	fmt.Printf("Created account %s (id %d)\n", summary.Username, summary.ID)
	return nil
}

// Update reads "field=value" lines until an empty line and applies them as
// one profile update. Recognized fields: full_name, email, role, active.
func (a *App) Update(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username to update", os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println("Enter changes in the format field=value (empty line to finish)")
	fmt.Println("Fields: full_name, email, role, active")

	var upd auth.AccountUpdate
	for {
		line, _ := a.reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		field, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Printf("Skipping %q, expected field=value", line)
			continue
		}
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		switch field {
		case "full_name":
			upd.FullName = &value
		case "email":
			upd.Email = &value
		case "role":
			role := models.Role(value)
			upd.Role = &role
		case "active":
			active, err := strconv.ParseBool(value)
			if err != nil {
				log.Printf("Skipping active=%q, expected true or false", value)
				continue
			}
			upd.IsActive = &active
		default:
			log.Printf("Skipping unknown field %q", field)
		}
	}

	if err := a.service.UpdateAccount(ctx, username, upd); err != nil {
		switch {
		case errors.Is(err, auth.ErrNoSuchAccount):
			log.Printf("No account named %q", username)
		case errors.Is(err, auth.ErrInvalidRole):
			log.Printf("Unknown role")
		default:
			log.Printf("Update failed: %s", err.Error())
		}
		return err
	}
	fmt.Println("Account updated")
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username to delete", os.Stdout)
	if err != nil {
		return err
	}
	if username == a.current.Username {
		log.Printf("Refusing to delete the account you are logged in with")
		return nil
	}
	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q? Type yes to confirm", username), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.service.DeleteAccount(ctx, username); err != nil {
		if errors.Is(err, auth.ErrNoSuchAccount) {
			log.Printf("No account named %q", username)
		} else {
			log.Printf("Deletion failed: %s", err.Error())
		}
		return err
	}
	fmt.Println("Account deleted")
	return nil
}
