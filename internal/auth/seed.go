package auth

import (
	"context"
	"fmt"

	"github.com/vkotelnikov/autopark/internal/models"
)

// seedDefaults creates the initial admin and operator accounts when the
// store holds no accounts at all. Going through CreateAccount gives the
// seeds regular create_user audit entries.
func (s *Service) seedDefaults(ctx context.Context) error {
	count, err := s.repos.Accounts(s.db).Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []CreateAccountParams{
		{Username: "admin", Password: "admin123", Role: models.RoleAdmin,
			FullName: "System Administrator", Email: "admin@autopark.local"},
		{Username: "user", Password: "user123", Role: models.RoleUser,
			FullName: "Fleet Operator", Email: "user@autopark.local"},
	}
	for _, p := range seeds {
		if _, err := s.CreateAccount(ctx, p); err != nil {
			return fmt.Errorf("failed to seed account %q: %w", p.Username, err)
		}
		s.logger.Warn(ctx, "seeded default account, change its password",
			"username", p.Username)
	}
	return nil
}
