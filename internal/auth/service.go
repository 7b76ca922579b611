// Package auth implements the authentication and access-control engine:
// credential verification, login-attempt throttling with timed lockout,
// audit logging of every authentication-relevant action, and role-derived
// permission sets. The Service facade is the sole entry point for callers.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vkotelnikov/autopark/internal/config"
	"github.com/vkotelnikov/autopark/internal/dbx"
	"github.com/vkotelnikov/autopark/internal/logging"
	"github.com/vkotelnikov/autopark/internal/models"
	"github.com/vkotelnikov/autopark/internal/passwd"
	"github.com/vkotelnikov/autopark/internal/permissions"
	"github.com/vkotelnikov/autopark/internal/repositories/accounts"
	"github.com/vkotelnikov/autopark/internal/repositories/repomanager"
)

// Service orchestrates hashing, lockout, audit logging and permission
// resolution over one durable store. It owns the database handle; release
// it with Close.
type Service struct {
	db           *sql.DB
	repos        repomanager.RepositoryManager
	logger       logging.Logger
	maxAttempts  int
	lockDuration time.Duration
	now          func() time.Time
}

// Open opens the backing store for cfg, runs schema migrations, and seeds
// the default accounts when the store is empty (unless disabled). The
// returned Service must be closed by the caller on every exit path.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Service, error) {
	mgr, err := repomanager.New(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	db, err := mgr.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open auth store: %w", err)
	}
	if err := mgr.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate auth store: %w", err)
	}

	s := &Service{
		db:           db,
		repos:        mgr,
		logger:       logger,
		maxAttempts:  cfg.MaxLoginAttempts,
		lockDuration: cfg.LockoutDuration,
		now:          time.Now,
	}
	if cfg.SeedDefaults {
		if err := s.seedDefaults(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	logger.Info(ctx, "auth store ready", "driver", cfg.DatabaseDriver)
	return s, nil
}

// Close releases the storage handle.
func (s *Service) Close() error {
	return s.db.Close()
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func originFields(origin *Origin) (ip, ua string) {
	if origin == nil {
		return "", ""
	}
	return origin.IPAddress, origin.UserAgent
}

func (s *Service) appendAudit(ctx context.Context, tx dbx.DBTX, accountID *int64, username, action string, success bool, origin *Origin) error {
	ip, ua := originFields(origin)
	return s.repos.AuditLog(tx).Append(ctx, &models.AuditEntry{
		AccountID: accountID,
		Username:  username,
		Action:    action,
		IPAddress: ip,
		UserAgent: ua,
		Success:   success,
		CreatedAt: s.now().UTC(),
	})
}

// authResult carries the outcome of one in-transaction credential check.
// account is set whenever the username resolved to a row, even when the
// check itself failed.
type authResult struct {
	view    *AccountView
	account *models.Account
	authErr error
}

// authenticateTx runs the whole read-check-mutate credential sequence
// against tx: lookup, active and lockout checks, constant-time password
// verification, and the counter transition the outcome demands. Exactly one
// login audit entry is appended. A non-nil error is a storage fault; every
// authentication verdict travels in the result.
func (s *Service) authenticateTx(ctx context.Context, tx dbx.DBTX, username, password string, origin *Origin) (*authResult, error) {
	accountsRepo := s.repos.Accounts(tx)
	res := &authResult{}

	acc, err := accountsRepo.GetByUsername(ctx, username)
	if errors.Is(err, accounts.ErrNotFound) {
		s.logger.Warn(ctx, "login attempt for unknown username", "username", username)
		res.authErr = ErrInvalidCredentials
		return res, s.appendAudit(ctx, tx, nil, username, models.ActionLogin, false, origin)
	}
	if err != nil {
		return nil, err
	}
	res.account = acc

	if !acc.IsActive {
		s.logger.Warn(ctx, "login attempt for inactive account", "username", username)
		res.authErr = ErrInvalidCredentials
		return res, s.appendAudit(ctx, tx, &acc.ID, username, models.ActionLogin, false, origin)
	}

	now := s.now()
	if acc.Locked(now) {
		s.logger.Warn(ctx, "login blocked, account locked",
			"username", username, "locked_until", acc.LockedUntil)
		res.authErr = ErrAccountLocked
		return res, s.appendAudit(ctx, tx, &acc.ID, username, models.ActionLoginBlocked, false, origin)
	}

	if passwd.Verify(password, acc.PasswordSalt, acc.PasswordHash) {
		if err := accountsRepo.RecordSuccess(ctx, acc.ID, now.UTC()); err != nil {
			return nil, err
		}
		res.view = &AccountView{
			ID:          acc.ID,
			Username:    acc.Username,
			Role:        acc.Role,
			FullName:    acc.FullName,
			IsAdmin:     acc.Role == models.RoleAdmin,
			Permissions: permissions.Resolve(acc.Role),
		}
		s.logger.Info(ctx, "login succeeded", "username", username, "role", acc.Role)
		return res, s.appendAudit(ctx, tx, &acc.ID, username, models.ActionLogin, true, origin)
	}

	attempts, locked, err := accountsRepo.RecordFailure(ctx, acc.ID, s.maxAttempts, now.Add(s.lockDuration).UTC())
	if err != nil {
		return nil, err
	}
	if locked {
		s.logger.Warn(ctx, "account locked after repeated failures",
			"username", username, "attempts", attempts, "lock_duration", s.lockDuration)
	} else {
		s.logger.Warn(ctx, "wrong password", "username", username, "attempts", attempts)
	}
	res.authErr = ErrInvalidCredentials
	return res, s.appendAudit(ctx, tx, &acc.ID, username, models.ActionLogin, false, origin)
}

// Authenticate verifies the credentials and returns the account view with
// its permission set. The whole read-check-mutate sequence for the account
// row runs in a single transaction, so a lockout transition can never race
// with a concurrent attempt. Exactly one audit entry is appended per call.
func (s *Service) Authenticate(ctx context.Context, username, password string, origin *Origin) (*AccountView, error) {
	var res *authResult

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r, err := s.authenticateTx(ctx, tx, username, password, origin)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		s.appendLoginError(ctx, username, origin)
		return nil, storageErr(err)
	}
	if res.authErr != nil {
		return nil, res.authErr
	}
	return res.view, nil
}

// appendLoginError records a login_error entry after a storage fault
// interrupted an authenticate call. Best effort: the store may still be
// down, in which case the failure is only logged.
func (s *Service) appendLoginError(ctx context.Context, username string, origin *Origin) {
	if err := s.appendAudit(ctx, s.db, nil, username, models.ActionLoginError, false, origin); err != nil {
		s.logger.Error(ctx, "failed to record login_error audit entry",
			"username", username, "error", err)
	}
}

// CreateAccount validates the role, derives a fresh salt and hash, and
// persists the account. A create_user audit entry is appended for both
// outcomes once persistence is reached; an invalid role is rejected before
// any write.
func (s *Service) CreateAccount(ctx context.Context, p CreateAccountParams) (*AccountSummary, error) {
	role, err := models.ParseRole(string(p.Role))
	if err != nil {
		s.logger.Error(ctx, "rejected account creation", "username", p.Username, "role", p.Role, "error", err)
		return nil, ErrInvalidRole
	}

	salt, err := passwd.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	acc := &models.Account{
		Username:     p.Username,
		PasswordHash: passwd.DeriveHash(p.Password, salt),
		PasswordSalt: salt,
		Role:         role,
		FullName:     p.FullName,
		Email:        p.Email,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}

	var createErr error
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Accounts(tx).Create(ctx, acc); err != nil {
			if errors.Is(err, accounts.ErrDuplicate) {
				s.logger.Error(ctx, "username already exists", "username", p.Username)
				createErr = ErrDuplicateUsername
				return s.appendAudit(ctx, tx, nil, p.Username, models.ActionCreateUser, false, nil)
			}
			return err
		}
		return s.appendAudit(ctx, tx, &acc.ID, p.Username, models.ActionCreateUser, true, nil)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if createErr != nil {
		return nil, createErr
	}

	s.logger.Info(ctx, "account created", "username", acc.Username, "role", acc.Role)
	summary := newAccountSummary(acc)
	return &summary, nil
}

// ChangePassword re-verifies the old password and persists a fresh salt and
// hash, resetting the lockout state in the same statement. Verification and
// update share one transaction, so the credential check can never pass
// against a row the update then misses. A change_password audit entry
// mirrors the outcome, alongside the login entry the verification itself
// writes.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	salt, err := passwd.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	var authErr error
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := s.authenticateTx(ctx, tx, username, oldPassword, nil)
		if err != nil {
			return err
		}
		if res.authErr != nil {
			authErr = res.authErr
			var accID *int64
			if res.account != nil {
				accID = &res.account.ID
			}
			return s.appendAudit(ctx, tx, accID, username, models.ActionChangePassword, false, nil)
		}

		hash := passwd.DeriveHash(newPassword, salt)
		affected, err := s.repos.Accounts(tx).UpdatePassword(ctx, username, hash, salt)
		if err != nil {
			return err
		}
		if affected == 0 {
			return accounts.ErrNotFound
		}
		return s.appendAudit(ctx, tx, &res.view.ID, username, models.ActionChangePassword, true, nil)
	})
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return ErrNoSuchAccount
		}
		s.appendLoginError(ctx, username, nil)
		return storageErr(err)
	}
	if authErr != nil {
		return authErr
	}

	s.logger.Info(ctx, "password changed", "username", username)
	return nil
}

// ListAccounts returns all accounts ordered by username ascending.
func (s *Service) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	accs, err := s.repos.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	result := make([]AccountSummary, 0, len(accs))
	for i := range accs {
		result = append(result, newAccountSummary(&accs[i]))
	}
	return result, nil
}

// GetAccount returns the summary for one username.
func (s *Service) GetAccount(ctx context.Context, username string) (*AccountSummary, error) {
	acc, err := s.repos.Accounts(s.db).GetByUsername(ctx, username)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil, ErrNoSuchAccount
	}
	if err != nil {
		return nil, storageErr(err)
	}
	summary := newAccountSummary(acc)
	return &summary, nil
}

// UpdateAccount applies the allow-listed profile fields. Neither the
// username nor the password can be changed through this path.
func (s *Service) UpdateAccount(ctx context.Context, username string, upd AccountUpdate) error {
	if upd.Role != nil {
		if _, err := models.ParseRole(string(*upd.Role)); err != nil {
			s.logger.Error(ctx, "rejected account update", "username", username, "role", *upd.Role, "error", err)
			return ErrInvalidRole
		}
	}

	affected, err := s.repos.Accounts(s.db).UpdateProfile(ctx, username, accounts.ProfileUpdate{
		FullName: upd.FullName,
		Email:    upd.Email,
		Role:     upd.Role,
		IsActive: upd.IsActive,
	})
	if errors.Is(err, accounts.ErrEmptyUpdate) {
		return err
	}
	if err != nil {
		return storageErr(err)
	}
	if affected == 0 {
		return ErrNoSuchAccount
	}
	s.logger.Info(ctx, "account updated", "username", username)
	return nil
}

// DeleteAccount hard-deletes the account. Its sessions are removed by the
// cascade and its audit entries keep a NULLed account reference.
func (s *Service) DeleteAccount(ctx context.Context, username string) error {
	affected, err := s.repos.Accounts(s.db).Delete(ctx, username)
	if err != nil {
		return storageErr(err)
	}
	if affected == 0 {
		s.logger.Warn(ctx, "delete for unknown account", "username", username)
		return ErrNoSuchAccount
	}
	s.logger.Info(ctx, "account deleted", "username", username)
	return nil
}

// RecentAuditLog returns up to limit audit entries, newest first.
func (s *Service) RecentAuditLog(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	entries, err := s.repos.AuditLog(s.db).Recent(ctx, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return entries, nil
}

// PurgeExpiredSessions removes expired rows from the reserved sessions
// table and reports how many were removed.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repos.Sessions(s.db).DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, storageErr(err)
	}
	if n > 0 {
		s.logger.Info(ctx, "expired sessions purged", "count", n)
	}
	return n, nil
}
