package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"tour-platform/api/internal/audit"
	"tour-platform/api/internal/db"
	roledomain "tour-platform/api/internal/role/domain"
	"tour-platform/api/internal/security"
	sessiondomain "tour-platform/api/internal/session/domain"
	userdomain "tour-platform/api/internal/user/domain"
)

// Sentinel errors for the auth service; handlers map them to HTTP responses.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUsernameAlreadyTaken   = errors.New("username already taken")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrSessionAlreadyInvalid  = errors.New("session already invalid")
	ErrUserNotFound           = errors.New("user not found")
)

// LoginResult holds the outcome of a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *userdomain.User
}

// ProfileUpdate carries the mutable profile fields. Nil means leave unchanged.
// Email, role, and password are never updated through this path.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Username  *string
	Mobile    *string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	Update(ctx context.Context, u *userdomain.User) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error)
}

// RoleRepo is the minimal role repository needed by the auth service.
type RoleRepo interface {
	GetByName(ctx context.Context, name string) (*roledomain.Role, error)
}

// SessionLedger is the minimal session repository needed by the auth service.
type SessionLedger interface {
	Record(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*sessiondomain.Session, error)
	Invalidate(ctx context.Context, tokenHash string) (bool, error)
	InvalidateAll(ctx context.Context, userID string) error
	ListByUser(ctx context.Context, userID string) ([]*sessiondomain.Session, error)
}

// TxRunner runs fn with user and session repositories bound to one database
// transaction. fn returning an error rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(users UserRepo, sessions SessionLedger) error) error
}

// AuthService implements register, login, logout, profile, and password change.
type AuthService struct {
	users       UserRepo
	roles       RoleRepo
	sessions    SessionLedger
	tx          TxRunner
	hasher      *security.Hasher
	codec       *security.TokenCodec
	sessionTTL  time.Duration
	defaultRole string
	audit       audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLogger may be audit.Nop{} when no trail is wanted.
func NewAuthService(
	users UserRepo,
	roles RoleRepo,
	sessions SessionLedger,
	tx TxRunner,
	hasher *security.Hasher,
	codec *security.TokenCodec,
	sessionTTL time.Duration,
	defaultRole string,
	auditLogger audit.AuditLogger,
) *AuthService {
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &AuthService{
		users:       users,
		roles:       roles,
		sessions:    sessions,
		tx:          tx,
		hasher:      hasher,
		codec:       codec,
		sessionTTL:  sessionTTL,
		defaultRole: defaultRole,
		audit:       auditLogger,
	}
}

// Register creates a user with the configured default role and a bcrypt
// password hash. The email is lowercased before lookup and storage.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, username, email, mobile, password string) (*userdomain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	role, err := s.roles.GetByName(ctx, s.defaultRole)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("default role %q not found", s.defaultRole)
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Username:     username,
		Email:        email,
		Mobile:       strings.TrimSpace(mobile),
		PasswordHash: hashed,
		RoleID:       role.ID,
		RoleName:     role.RoleName,
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent registration loses the race at the unique index rather
		// than the pre-check; the violated constraint tells the two apart.
		if db.IsUniqueViolation(err) {
			if strings.Contains(db.UniqueConstraint(err), "username") {
				return nil, ErrUsernameAlreadyTaken
			}
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	s.audit.LogEvent(ctx, user.ID, audit.ActionRegister, "auth", user.Email)
	return user, nil
}

// Login authenticates with email/password, records a new session (invalidating
// any previously valid ones for the user), and returns a signed session token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != userdomain.UserStatusActive {
		s.audit.LogEvent(ctx, "", audit.ActionLoginFailure, "auth", email)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.audit.LogEvent(ctx, user.ID, audit.ActionLoginFailure, "auth", email)
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.codec.Issue(user.ID, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Record(ctx, user.ID, security.HashSessionToken(token), expiresAt); err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, user.ID, audit.ActionLogin, "auth", "")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout invalidates the session matching the given token. A token whose
// session is already invalid, expired, or unknown returns
// ErrSessionAlreadyInvalid.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ok, err := s.sessions.Invalidate(ctx, security.HashSessionToken(token))
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionAlreadyInvalid
	}
	userID := ""
	if claims, err := s.codec.Verify(token); err == nil {
		userID = claims.Subject
	}
	s.audit.LogEvent(ctx, userID, audit.ActionLogout, "auth", "")
	return nil
}

// LogoutAll invalidates every valid session for userID. Idempotent.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.sessions.InvalidateAll(ctx, userID); err != nil {
		return err
	}
	s.audit.LogEvent(ctx, userID, audit.ActionLogoutAll, "auth", "")
	return nil
}

// ListSessions returns the user's sessions, newest first. Invalidated and
// expired rows stay in the ledger, so the listing doubles as login history.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]*sessiondomain.Session, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// GetProfile returns the user with the given id, or ErrUserNotFound.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of upd to the user's profile and
// returns the updated user. Role, email, and password are not touched here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Username != nil {
		user.Username = strings.TrimSpace(*upd.Username)
	}
	if upd.Mobile != nil {
		user.Mobile = strings.TrimSpace(*upd.Mobile)
	}
	user.UpdatedAt = time.Now().UTC()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.users.Update(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrUsernameAlreadyTaken
		}
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	s.audit.LogEvent(ctx, userID, audit.ActionProfileUpdate, "user", "")
	return user, nil
}

// ChangePassword verifies the current password, stores a hash of the new one,
// and invalidates every session for the user. The hash update and the session
// sweep commit in one transaction so a crash cannot leave old sessions alive
// against the new password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	err = s.tx.InTx(ctx, func(users UserRepo, sessions SessionLedger) error {
		ok, err := users.UpdatePassword(ctx, userID, hashed)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		return sessions.InvalidateAll(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.audit.LogEvent(ctx, userID, audit.ActionPasswordChange, "auth", "")
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
