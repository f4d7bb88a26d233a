package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/security"
	"github.com/taskhive/backend/pkg/httpcontext"
	appLogger "github.com/taskhive/backend/pkg/logger"
	"github.com/taskhive/backend/repository"
)

// SubjectResolver maps a verified token subject to its user record. The auth
// use case implements it; the middleware never reads the user store directly.
type SubjectResolver interface {
	CurrentUser(ctx context.Context, subject string) (*domain.User, error)
}

// Authenticator guards protected routes: it verifies the bearer token,
// rejects revoked tokens, resolves the subject to a user record and exposes
// the user id to downstream handlers via the X-User-ID request header.
//
// Status codes follow the service's long-standing contract: a missing,
// malformed or expired token is 403, a verified token whose subject no longer
// matches a user is 404, and an inactive user is 400.
type Authenticator struct {
	tokens   *security.TokenService
	denylist repository.TokenDenylist
	resolver SubjectResolver
	adapter  *httpcontext.Adapter
	logger   *zap.Logger
}

func NewAuthenticator(
	tokens *security.TokenService,
	denylist repository.TokenDenylist,
	resolver SubjectResolver,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		tokens:   tokens,
		denylist: denylist,
		resolver: resolver,
		adapter:  adapter,
		logger:   logger,
	}
}

// Middleware wraps a handler with bearer authentication.
func (a *Authenticator) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		tokenString := extractToken(ctx)
		if tokenString == "" {
			a.reject(ctx, http.StatusForbidden, domain.ErrCodeForbidden, domain.ErrInvalidToken.Message)
			return
		}

		claims, err := a.tokens.Verify(tokenString)
		if err != nil {
			a.logger.Warn("invalid bearer token", zap.Error(err))
			a.reject(ctx, http.StatusForbidden, domain.ErrCodeForbidden, domain.ErrInvalidToken.Message)
			return
		}
		if claims.Subject == "" {
			a.reject(ctx, http.StatusNotFound, domain.ErrCodeNotFound, domain.ErrUserNotFound.Message)
			return
		}

		stdCtx, cancel := a.adapter.Attach(ctx)
		defer cancel()

		if a.denylist != nil {
			revoked, err := a.denylist.IsRevoked(stdCtx, claims.TokenID)
			if err != nil {
				appLogger.WithRequestID(stdCtx, a.logger).Error("denylist lookup failed", zap.Error(err))
				a.reject(ctx, http.StatusInternalServerError, domain.ErrCodeInternal, "authorization check failed")
				return
			}
			if revoked {
				a.reject(ctx, http.StatusForbidden, domain.ErrCodeForbidden, domain.ErrInvalidToken.Message)
				return
			}
		}

		user, err := a.resolver.CurrentUser(stdCtx, claims.Subject)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				a.reject(ctx, http.StatusNotFound, domain.ErrCodeNotFound, domain.ErrUserNotFound.Message)
				return
			}
			appLogger.WithRequestID(stdCtx, a.logger).Error("user lookup failed", zap.Error(err))
			a.reject(ctx, http.StatusInternalServerError, domain.ErrCodeInternal, "authorization check failed")
			return
		}
		if !user.IsActive {
			a.reject(ctx, http.StatusBadRequest, domain.ErrCodeInvalid, domain.ErrInactiveUser.Message)
			return
		}

		ctx.Request.Header.Set("X-User-ID", user.ID)
		ctx.Request.Header.Set("X-Username", user.Username)
		next(ctx)
	}
}

func (a *Authenticator) reject(ctx *fasthttp.RequestCtx, status int, code domain.ErrorCode, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(transport.NewError(string(code), message, nil))
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
