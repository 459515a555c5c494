package services

import (
	"context"
	"errors"
	"strings"

	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrVetPendingApproval = errors.New("vet account is pending admin approval")
	ErrVetNotFound        = errors.New("vet not found")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetVetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, fullName, email, passwordHash, role string, isApproved bool) (*models.UserDB, error)
	Approve(ctx context.Context, id int64) (int64, error)
}

// AuthService handles registration, login and vet approval.
type AuthService struct {
	reader UserReader
	writer UserWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
	}
}

// normalizeEmail applies the same normalization at registration and login.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with the given role. Ordinary users are
// approved on creation; veterinarians are not and must be approved before
// they can log in.
func (svc *AuthService) Register(ctx context.Context, fullName, email, password, role string) (*models.UserDB, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)

	fields := map[string]string{}
	if fullName == "" {
		fields["fullName"] = "FullName is required."
	}
	if email == "" {
		fields["email"] = "Email is required."
	}
	if password == "" {
		fields["password"] = "Password is required."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("email already exists", "email", email)
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	isApproved := role != models.RoleVet

	user, err := svc.writer.Save(ctx, fullName, email, string(hashedPassword), role, isApproved)
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns the account record. Unknown email
// and wrong password collapse into the same error so account existence does
// not leak; the pending-approval check runs strictly after the password
// comparison.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.UserDB, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return nil, &ValidationError{Fields: map[string]string{
			"email": "Email and Password are required.",
		}}
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "email", email)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	if user.Role == models.RoleVet && !user.IsApproved {
		logger.Log.Errorw("vet pending approval", "email", email)
		return nil, ErrVetPendingApproval
	}

	return user, nil
}

// ApproveVet flips the approval flag for the veterinarian with the given id
// and returns the updated record. Approving an already-approved vet succeeds
// with no observable change.
func (svc *AuthService) ApproveVet(ctx context.Context, id int64) (*models.UserDB, error) {
	vet, err := svc.reader.GetVetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get vet", "id", id, "err", err)
		return nil, err
	}
	if vet == nil {
		logger.Log.Errorw("vet not found", "id", id)
		return nil, ErrVetNotFound
	}

	if _, err := svc.writer.Approve(ctx, id); err != nil {
		logger.Log.Errorw("failed to approve vet", "id", id, "err", err)
		return nil, err
	}

	vet.IsApproved = true
	return vet, nil
}
