package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 6

var validate = validator.New()

// PasswordHasher hashes and verifies admin passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt PasswordHasher. A cost of 0 uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *bcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// AdminService defines behaviour-level operations on admins.
type AdminService interface {
	Authenticate(ctx context.Context, email, password string) (*model.Admin, error)
	GetAdmin(ctx context.Context, id uint) (*model.Admin, error)
	UpdateProfile(ctx context.Context, id uint, input ProfileInput) (*model.Admin, error)
	// ChangePassword verifies current before storing the hash of next.
	// An empty next is a no-op.
	ChangePassword(ctx context.Context, id uint, current, next string) error
	// UpdateCredentials applies profile fields and an optional password change
	// together. When a new password is given and current does not match,
	// nothing is persisted and ErrCredentialMismatch is returned.
	UpdateCredentials(ctx context.Context, id uint, input CredentialsInput) (*model.Admin, error)
	SeedAdmin(ctx context.Context, input SeedAdminInput) (*model.Admin, bool, error)
}

// ProfileInput captures the admin's self-editable profile fields.
type ProfileInput struct {
	Email    string
	Nickname *string
}

// CredentialsInput is the combined profile + password form.
type CredentialsInput struct {
	Email           string
	Nickname        *string
	CurrentPassword string
	NewPassword     string
}

// SeedAdminInput describes the admin created on first boot.
type SeedAdminInput struct {
	Email    string
	Password string
	Nickname string
}

type adminService struct {
	repo   repository.AdminRepository
	hasher PasswordHasher

	decoyOnce sync.Once
	decoy     string
}

// NewAdminService returns a service implementation backed by the given repository.
func NewAdminService(repo repository.AdminRepository, hasher PasswordHasher) AdminService {
	return &adminService{repo: repo, hasher: hasher}
}

func (s *adminService) Authenticate(ctx context.Context, email, password string) (*model.Admin, error) {
	admin, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			// Spend the same hashing time as a real check.
			s.hasher.Verify(s.decoyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load admin: %w", err)
	}

	if !s.hasher.Verify(admin.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *adminService) GetAdmin(ctx context.Context, id uint) (*model.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

func (s *adminService) UpdateProfile(ctx context.Context, id uint, input ProfileInput) (*model.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if err := applyProfile(admin, input.Email, input.Nickname); err != nil {
		return nil, err
	}
	if err := s.save(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *adminService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if next == "" {
		return nil
	}

	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load admin: %w", err)
	}
	if err := s.applyPassword(admin, current, next); err != nil {
		return err
	}
	return s.save(ctx, admin)
}

func (s *adminService) UpdateCredentials(ctx context.Context, id uint, input CredentialsInput) (*model.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}

	if input.NewPassword != "" {
		if err := s.applyPassword(admin, input.CurrentPassword, input.NewPassword); err != nil {
			return nil, err
		}
	}
	if err := applyProfile(admin, input.Email, input.Nickname); err != nil {
		return nil, err
	}

	if err := s.save(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *adminService) SeedAdmin(ctx context.Context, input SeedAdminInput) (*model.Admin, bool, error) {
	email := strings.TrimSpace(input.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrAdminNotFound) {
		return nil, false, fmt.Errorf("load admin: %w", err)
	}

	if err := validatePassword(input.Password); err != nil {
		return nil, false, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Password: hash,
		Roles:    []string{model.RoleAdmin},
	}
	var nickname *string
	if input.Nickname != "" {
		nickname = &input.Nickname
	}
	if err := applyProfile(admin, email, nickname); err != nil {
		return nil, false, err
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return admin, true, nil
}

func (s *adminService) applyPassword(admin *model.Admin, current, next string) error {
	if err := validatePassword(next); err != nil {
		return err
	}
	if current == "" || !s.hasher.Verify(admin.Password, current) {
		return ErrCredentialMismatch
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin.Password = hash
	return nil
}

func (s *adminService) save(ctx context.Context, admin *model.Admin) error {
	if err := s.repo.Update(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return newValidationError("email", "email is already in use")
		}
		return fmt.Errorf("update admin: %w", err)
	}
	return nil
}

func (s *adminService) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = s.hasher.Hash("decoy-password-for-unknown-admins")
	})
	return s.decoy
}

func applyProfile(admin *model.Admin, email string, nickname *string) error {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email,max=180"); err != nil {
		return newValidationError("email", "email must be a valid address")
	}
	admin.Email = email

	if nickname != nil {
		trimmed := strings.TrimSpace(*nickname)
		if trimmed == "" {
			admin.Nickname = nil
		} else {
			admin.Nickname = &trimmed
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return newValidationError("new_password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}
