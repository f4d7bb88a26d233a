package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/pkg/httpcontext"
	accountUC "github.com/taskhive/backend/usecase/account"
	authUC "github.com/taskhive/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	auth     *authUC.UseCase
	accounts *accountUC.UseCase
}

func NewAuthHandler(auth *authUC.UseCase, accounts *accountUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		accounts:    accounts,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBadPayload(ctx)
		return
	}
	if err := transport.Validate(req); err != nil {
		h.respondValidation(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.auth.Register(stdCtx, authUC.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, user)
}

// @Summary Log in with JSON credentials
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBadPayload(ctx)
		return
	}
	if err := transport.Validate(req); err != nil {
		h.respondValidation(ctx, err)
		return
	}
	h.login(ctx, req.Username, req.Password)
}

// @Summary OAuth2-compatible form login
// @Tags auth
// @Router /api/v1/auth/login/access-token [post]
func (h *AuthHandler) LoginAccessToken(ctx *fasthttp.RequestCtx) {
	args := ctx.PostArgs()
	username := string(args.Peek("username"))
	password := string(args.Peek("password"))
	if username == "" || password == "" {
		h.respondValidation(ctx, transport.Validate(transport.LoginRequest{
			Username: username,
			Password: password,
		}))
		return
	}
	h.login(ctx, username, password)
}

func (h *AuthHandler) login(ctx *fasthttp.RequestCtx, username, password string) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token, err := h.auth.Login(stdCtx, username, password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// @Summary Current account
// @Tags auth
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	userID := h.ownerID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.accounts.Get(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Update current account
// @Tags auth
// @Router /api/v1/auth/me [put]
func (h *AuthHandler) UpdateMe(ctx *fasthttp.RequestCtx) {
	userID := h.ownerID(ctx)
	if userID == "" {
		return
	}

	var req transport.AccountUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBadPayload(ctx)
		return
	}
	if err := transport.Validate(req); err != nil {
		h.respondValidation(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.accounts.Update(stdCtx, userID, accountUC.Patch{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Revoke the presented token
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	token := bearerToken(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.auth.Logout(stdCtx, token); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.MessageResponse{Message: "logged out"})
}

func bearerToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
