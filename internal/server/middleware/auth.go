package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tour-platform/api/internal/security"
	userdomain "tour-platform/api/internal/user/domain"
)

// Stable 401 sub-codes; clients key on these to distinguish the failure cause.
const (
	CodeNoToken        = "001-401"
	CodeSessionInvalid = "002-401"
	CodeInvalidToken   = "003-401"
	CodeUserNotFound   = "004-401"
	CodeNoLogoutToken  = "005-401"
	CodeForbidden      = "001-403"
)

// SessionChecker reports whether the session behind a token hash is still valid.
type SessionChecker interface {
	IsValid(ctx context.Context, tokenHash string) (bool, error)
}

// UserResolver loads the user for a verified token subject.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

type codedError struct {
	Status     bool   `json:"status"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
}

// AbortWithCode writes the coded error envelope and stops the chain.
func AbortWithCode(c *gin.Context, httpStatus int, message, code string) {
	c.AbortWithStatusJSON(httpStatus, codedError{
		Status:     false,
		Message:    message,
		StatusCode: httpStatus,
		Code:       code,
	})
}

func abortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"status":  false,
		"message": "Internal Server Error",
	})
}

// BearerToken extracts the token from the Authorization header.
// Returns "" when the header is missing or not a Bearer scheme.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Authenticated walks a request from bearer header to resolved identity.
// Session validity is checked in the ledger before the signature is trusted;
// each rejection carries its own stable sub-code.
func Authenticated(sessions SessionChecker, users UserResolver, codec *security.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			AbortWithCode(c, http.StatusUnauthorized, "Unauthorized Access Denied", CodeNoToken)
			return
		}

		ok, err := sessions.IsValid(c.Request.Context(), security.HashSessionToken(token))
		if err != nil {
			abortInternal(c)
			return
		}
		if !ok {
			AbortWithCode(c, http.StatusUnauthorized, "Session expired or invalid", CodeSessionInvalid)
			return
		}

		claims, err := codec.Verify(token)
		if err != nil {
			AbortWithCode(c, http.StatusUnauthorized, "Invalid token", CodeInvalidToken)
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			abortInternal(c)
			return
		}
		if user == nil || user.Status != userdomain.UserStatusActive {
			// A disabled account keeps no access through sessions opened
			// while it was active.
			AbortWithCode(c, http.StatusUnauthorized, "User Not Found", CodeUserNotFound)
			return
		}

		SetIdentity(c, Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			RoleID:   user.RoleID,
			RoleName: user.RoleName,
		})
		c.Next()
	}
}
