package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// SignupInput carries a new account's username, email and plaintext credential.
type SignupInput struct {
	Username   string
	Email      string
	Credential string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccountID int64
	Token     string
	ExpiresAt time.Time
}

// AccountChanges is a partial account update. Nil fields are left unchanged.
type AccountChanges struct {
	Username   *string
	Email      *string
	Credential *string
}

// AccountService provides signup, login and account update.
type AccountService interface {
	// Signup creates an account and returns it with its assigned id.
	Signup(ctx context.Context, input SignupInput) (*domain.Account, error)

	// Login verifies email and credential and issues a token.
	Login(ctx context.Context, email, credential string) (*LoginResult, error)

	// Update applies changes to accountID, which must be the identity's own account.
	Update(ctx context.Context, identity domain.Identity, accountID int64, changes AccountChanges) error
}

type accountService struct {
	accounts store.AccountStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	tokens   auth.TokenService
	logger   *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(
	accounts store.AccountStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	tokens auth.TokenService,
	logger *slog.Logger,
) (AccountService, error) {
	if accounts == nil {
		return nil, domain.NewValidationError("accounts", "cannot be nil", nil)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", nil)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", nil)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &accountService{
		accounts: accounts,
		hasher:   hasher,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "account_service")),
	}, nil
}

// Signup implements AccountService.
func (s *accountService) Signup(ctx context.Context, input SignupInput) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.Credential == "" {
		return nil, domain.NewValidationError("credential", "cannot be empty", nil)
	}

	hash, err := s.hasher.Hash(input.Credential)
	if err != nil {
		log.Error("failed to hash credential", "error", err)
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	account, err := domain.NewAccount(input.Username, input.Email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("signup rejected: duplicate account", "error", err)
		} else {
			log.Error("failed to create account", "error", err)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info("account signed up", "account_id", account.ID)
	return account, nil
}

// Login implements AccountService.
func (s *accountService) Login(ctx context.Context, email, credential string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login failed: unknown email")
			return nil, ErrAuthenticationFailed
		}
		log.Error("failed to load account for login", "error", err)
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := s.verifier.Compare(account.PasswordHash, credential); err != nil {
		log.Debug("login failed: credential mismatch", "account_id", account.ID)
		return nil, ErrAuthenticationFailed
	}

	token, expiresAt, err := s.tokens.IssueToken(ctx, account.ID, account.Email)
	if err != nil {
		log.Error("failed to issue token", "error", err, "account_id", account.ID)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("account logged in", "account_id", account.ID)
	return &LoginResult{AccountID: account.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// Update implements AccountService.
func (s *accountService) Update(
	ctx context.Context,
	identity domain.Identity,
	accountID int64,
	changes AccountChanges,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if identity.AccountID != accountID {
		log.Warn("account update rejected: identity mismatch",
			"account_id", accountID,
			"identity_account_id", identity.AccountID)
		return ErrForbidden
	}

	var update store.AccountUpdate

	if changes.Username != nil {
		username := strings.TrimSpace(*changes.Username)
		if username == "" {
			return domain.NewValidationError("username", "cannot be empty", domain.ErrEmptyUsername)
		}
		update.Username = &username
	}

	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if err := domain.ValidateEmail(email); err != nil {
			return err
		}
		update.Email = &email
	}

	if changes.Credential != nil && *changes.Credential == "" {
		return domain.NewValidationError("credential", "cannot be empty", nil)
	}

	if update.Empty() && changes.Credential == nil {
		return domain.NewValidationError("body", "at least one of username, email or credential is required", nil)
	}

	// Load first so a missing account is reported before paying for a hash.
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("account update rejected: account not found", "account_id", accountID)
		} else {
			log.Error("failed to load account for update", "error", err, "account_id", accountID)
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	if changes.Credential != nil {
		hash, err := s.hasher.Hash(*changes.Credential)
		if err != nil {
			log.Error("failed to hash credential", "error", err)
			return fmt.Errorf("failed to hash credential: %w", err)
		}
		update.PasswordHash = &hash
	}

	if err := s.accounts.Update(ctx, accountID, update); err != nil {
		log.Debug("account update failed", "error", err, "account_id", accountID)
		return fmt.Errorf("failed to update account: %w", err)
	}

	log.Info("account updated", "account_id", accountID)
	return nil
}
