package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	roledomain "tour-platform/api/internal/role/domain"
	"tour-platform/api/internal/security"
	sessiondomain "tour-platform/api/internal/session/domain"
	userdomain "tour-platform/api/internal/user/domain"
)

// memUsers implements UserRepo in memory for tests.
type memUsers struct {
	byID      map[string]*userdomain.User
	createErr error
	updateErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*userdomain.User)}
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Create(ctx context.Context, u *userdomain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) Update(ctx context.Context, u *userdomain.User) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	existing, ok := m.byID[u.ID]
	if !ok {
		return false, nil
	}
	existing.FirstName = u.FirstName
	existing.LastName = u.LastName
	existing.Username = u.Username
	existing.Mobile = u.Mobile
	existing.UpdatedAt = u.UpdatedAt
	return true, nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error) {
	u, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = passwordHash
	return true, nil
}

// memRoles implements RoleRepo in memory for tests.
type memRoles struct {
	byName map[string]*roledomain.Role
}

func (m *memRoles) GetByName(ctx context.Context, name string) (*roledomain.Role, error) {
	if r, ok := m.byName[name]; ok {
		return r, nil
	}
	return nil, nil
}

// memSessions implements SessionLedger in memory for tests.
type memSessions struct {
	sessions []*sessiondomain.Session
}

func (m *memSessions) Record(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*sessiondomain.Session, error) {
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.Valid = false
		}
	}
	now := time.Now().UTC()
	sess := &sessiondomain.Session{
		ID:         tokenHash[:8],
		UserID:     userID,
		TokenHash:  tokenHash,
		Valid:      true,
		LastUsedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  expiresAt,
	}
	m.sessions = append(m.sessions, sess)
	return sess, nil
}

func (m *memSessions) Invalidate(ctx context.Context, tokenHash string) (bool, error) {
	for _, s := range m.sessions {
		if s.TokenHash == tokenHash && s.Valid {
			s.Valid = false
			return true, nil
		}
	}
	return false, nil
}

func (m *memSessions) InvalidateAll(ctx context.Context, userID string) error {
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.Valid = false
		}
	}
	return nil
}

func (m *memSessions) ListByUser(ctx context.Context, userID string) ([]*sessiondomain.Session, error) {
	var out []*sessiondomain.Session
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].UserID == userID {
			cp := *m.sessions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSessions) validCount(userID string) int {
	n := 0
	for _, s := range m.sessions {
		if s.UserID == userID && s.Valid {
			n++
		}
	}
	return n
}

func (m *memSessions) isValidHash(tokenHash string) bool {
	for _, s := range m.sessions {
		if s.TokenHash == tokenHash && s.Valid {
			return true
		}
	}
	return false
}

// memTxRunner runs the transactional callback directly over the in-memory repos.
type memTxRunner struct {
	users    *memUsers
	sessions *memSessions
	err      error
}

func (m *memTxRunner) InTx(ctx context.Context, fn func(users UserRepo, sessions SessionLedger) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(m.users, m.sessions)
}

type fixture struct {
	svc      *AuthService
	users    *memUsers
	sessions *memSessions
	codec    *security.TokenCodec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newMemUsers()
	roles := &memRoles{byName: map[string]*roledomain.Role{
		"user": {ID: "role-user", RoleName: "user", Status: roledomain.RoleStatusActive},
	}}
	sessions := &memSessions{}
	tx := &memTxRunner{users: users, sessions: sessions}
	hasher := security.NewHasher(4)
	codec := security.NewTokenCodec([]byte("test-secret-0123456789"), "test-issuer", "test-audience")
	svc := NewAuthService(users, roles, sessions, tx, hasher, codec, time.Hour, "user", nil)
	return &fixture{svc: svc, users: users, sessions: sessions, codec: codec}
}

func (f *fixture) register(t *testing.T, email, password string) *userdomain.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), "Ada", "Lovelace", "ada-"+email, email, "", password)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, " Ada ", "Lovelace", "ada", "Ada@Example.COM", "555-0101", "correct-horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.FirstName != "Ada" {
		t.Errorf("first name = %q, want trimmed", u.FirstName)
	}
	if u.RoleID != "role-user" || u.RoleName != "user" {
		t.Errorf("role = %q/%q, want default role", u.RoleID, u.RoleName)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct-horse" {
		t.Error("password must be stored hashed")
	}
	if u.Status != userdomain.UserStatusActive {
		t.Errorf("status = %q, want active", u.Status)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@example.com", "correct-horse")

	_, err := f.svc.Register(context.Background(), "Other", "", "other", "ada@example.com", "", "correct-horse")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestRegister_ConcurrentUniqueViolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A racing insert slips past the pre-check and loses at the index; the
	// violated constraint decides which conflict the caller sees.
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username index", "uniq_users_username", ErrUsernameAlreadyTaken},
		{"email index", "uniq_users_email", ErrEmailAlreadyRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.users.createErr = &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: tt.constraint,
			}
			_, err := f.svc.Register(ctx, "Ada", "", "ada", "ada@example.com", "", "correct-horse")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "A", "", "a", "not-an-email", "", "correct-horse"); err == nil {
		t.Error("want error for malformed email")
	}
	if _, err := f.svc.Register(ctx, "A", "", "a", "a@example.com", "", "short"); err == nil {
		t.Error("want error for short password")
	}
}

func TestRegister_DefaultRoleMissing(t *testing.T) {
	f := newFixture(t)
	f.svc.defaultRole = "nonexistent"

	_, err := f.svc.Register(context.Background(), "A", "", "a", "a@example.com", "", "correct-horse")
	if err == nil {
		t.Fatal("want error when default role is missing")
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")

	res, err := f.svc.Login(context.Background(), "Ada@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("want a token")
	}
	claims, err := f.codec.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify issued token: %v", err)
	}
	if claims.Subject != u.ID {
		t.Errorf("token subject = %q, want %q", claims.Subject, u.ID)
	}
	if !f.sessions.isValidHash(security.HashSessionToken(res.Token)) {
		t.Error("login must record a valid session for the token hash")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	_, errUnknown := f.svc.Login(ctx, "nobody@example.com", "correct-horse")
	_, errWrongPw := f.svc.Login(ctx, "ada@example.com", "wrong-password")
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", errWrongPw)
	}
	// Both failure causes must be indistinguishable to the caller.
	if errUnknown != errWrongPw {
		t.Error("unknown email and wrong password must return the same error")
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")
	f.users.byID[u.ID].Status = userdomain.UserStatusDisabled

	_, err := f.svc.Login(context.Background(), "ada@example.com", "correct-horse")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials for disabled user", err)
	}
}

func TestLogin_SecondLoginInvalidatesFirstSession(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	first, err := f.svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	second, err := f.svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if f.sessions.isValidHash(security.HashSessionToken(first.Token)) {
		t.Error("first session must be invalid after second login")
	}
	if !f.sessions.isValidHash(security.HashSessionToken(second.Token)) {
		t.Error("second session must be valid")
	}
	if got := f.sessions.validCount(u.ID); got != 1 {
		t.Errorf("valid sessions = %d, want 1", got)
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if f.sessions.isValidHash(security.HashSessionToken(res.Token)) {
		t.Error("session must be invalid after logout")
	}
	// Second logout of the same token reports the session as already gone.
	if err := f.svc.Logout(ctx, res.Token); !errors.Is(err, ErrSessionAlreadyInvalid) {
		t.Errorf("second Logout: err = %v, want ErrSessionAlreadyInvalid", err)
	}
}

func TestLogout_UnknownToken(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Logout(context.Background(), "never-issued")
	if !errors.Is(err, ErrSessionAlreadyInvalid) {
		t.Fatalf("err = %v, want ErrSessionAlreadyInvalid", err)
	}
}

func TestLogoutAll(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "ada@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.svc.LogoutAll(ctx, u.ID); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}
	if got := f.sessions.validCount(u.ID); got != 0 {
		t.Errorf("valid sessions = %d, want 0", got)
	}
	// Idempotent.
	if err := f.svc.LogoutAll(ctx, u.ID); err != nil {
		t.Fatalf("second LogoutAll: %v", err)
	}
}

func TestListSessions(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "ada@example.com", "correct-horse"); err != nil {
		t.Fatalf("first Login: %v", err)
	}
	if _, err := f.svc.Login(ctx, "ada@example.com", "correct-horse"); err != nil {
		t.Fatalf("second Login: %v", err)
	}

	sessions, err := f.svc.ListSessions(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2 (superseded sessions stay in the ledger)", len(sessions))
	}
	if !sessions[0].Valid || sessions[1].Valid {
		t.Error("only the newest session should be valid")
	}
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	got, err := f.svc.GetProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("email = %q", got.Email)
	}
	if _, err := f.svc.GetProfile(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user: err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")

	mobile := "555-0199"
	got, err := f.svc.UpdateProfile(context.Background(), u.ID, ProfileUpdate{Mobile: &mobile})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Mobile != "555-0199" {
		t.Errorf("mobile = %q, want updated", got.Mobile)
	}
	if got.FirstName != "Ada" || got.Username != u.Username {
		t.Error("fields not named in the update must be unchanged")
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	f := newFixture(t)

	name := "Grace"
	_, err := f.svc.UpdateProfile(context.Background(), "missing", ProfileUpdate{FirstName: &name})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.svc.ChangePassword(ctx, u.ID, "correct-horse", "battery-staple"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	// Every session is swept with the hash update.
	if f.sessions.isValidHash(security.HashSessionToken(res.Token)) {
		t.Error("sessions must be invalid after a password change")
	}
	if _, err := f.svc.Login(ctx, "ada@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := f.svc.Login(ctx, "ada@example.com", "battery-staple"); err != nil {
		t.Errorf("new password: %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")

	err := f.svc.ChangePassword(context.Background(), u.ID, "wrong-password", "battery-staple")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword_TxFailureKeepsOldPassword(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ada@example.com", "correct-horse")
	f.svc.tx = &memTxRunner{users: f.users, sessions: f.sessions, err: errors.New("tx failed")}

	if err := f.svc.ChangePassword(context.Background(), u.ID, "correct-horse", "battery-staple"); err == nil {
		t.Fatal("want error when transaction fails")
	}
	if _, err := f.svc.Login(context.Background(), "ada@example.com", "correct-horse"); err != nil {
		t.Errorf("old password must still work after failed change: %v", err)
	}
}
