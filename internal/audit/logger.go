// Package audit writes the durable trail of security-relevant events.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"tour-platform/api/internal/audit/domain"
	auditrepo "tour-platform/api/internal/audit/repository"
)

// Auth event actions recorded by the authentication service.
const (
	ActionRegister       = "register"
	ActionLogin          = "login"
	ActionLoginFailure   = "login_failure"
	ActionLogout         = "logout"
	ActionLogoutAll      = "logout_all"
	ActionPasswordChange = "password_change"
	ActionProfileUpdate  = "profile_update"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource. Used by
// the auth service code paths. LogEvent is best-effort: failures are logged and
// do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		if got := l.ipExtractor(ctx); got != "" {
			ip = got
		}
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}

// Nop is an AuditLogger that discards all events. Useful in tests and when no
// audit repository is configured.
type Nop struct{}

// LogEvent discards the event.
func (Nop) LogEvent(ctx context.Context, userID, action, resource, metadata string) {}
