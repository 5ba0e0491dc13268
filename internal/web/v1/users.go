package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/fishfile-service/internal/core/domain"
	"github.com/duynhne/fishfile-service/middleware"
)

// Token exchanges a username and password for a token.
// POST /auth/token
func (h *Handler) Token(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.auth.token")
	defer span.End()

	var req domain.LoginRequest
	if !bindJSON(c, span, &req) {
		return
	}

	resp, err := h.users.Login(ctx, req)
	if err != nil {
		respondError(c, span, log, "Login failed", err)
		return
	}

	log.Info().Str("username", resp.User.Username).Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{"token": resp.Token})
}

// Register creates a regular (non-admin) user and returns a token for it.
// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.auth.register")
	defer span.End()

	var req domain.NewUser
	if !bindJSON(c, span, &req) {
		return
	}
	req.IsAdmin = false

	resp, err := h.users.Register(ctx, req)
	if err != nil {
		respondError(c, span, log, "Registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": resp.Token})
}

// CreateUser lets an admin create a user, possibly another admin.
// POST /users
func (h *Handler) CreateUser(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.users.create")
	defer span.End()

	var req domain.NewUser
	if !bindJSON(c, span, &req) {
		return
	}

	resp, err := h.users.Register(ctx, req)
	if err != nil {
		respondError(c, span, log, "Create user failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": resp.User, "token": resp.Token})
}

// ListUsers returns every user.
// GET /users
func (h *Handler) ListUsers(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.users.list")
	defer span.End()

	users, err := h.users.FindAll(ctx)
	if err != nil {
		respondError(c, span, log, "List users failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser returns a user with its location and record ids.
// GET /users/:username
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.users.get")
	defer span.End()

	user, err := h.users.Get(ctx, c.Param("username"))
	if err != nil {
		respondError(c, span, log, "Get user failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser applies a partial update to a user. Only admins may change isAdmin.
// PATCH /users/:username
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.users.update")
	defer span.End()

	var req domain.UserUpdate
	if !bindJSON(c, span, &req) {
		return
	}

	actor, _ := middleware.IdentityFrom(c)
	user, err := h.users.Update(ctx, actor, c.Param("username"), req)
	if err != nil {
		respondError(c, span, log, "Update user failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RemoveUser deletes a user and everything it owns.
// DELETE /users/:username
func (h *Handler) RemoveUser(c *gin.Context) {
	ctx, span, log := startSpan(c, "http.users.remove")
	defer span.End()

	username := c.Param("username")
	if err := h.users.Remove(ctx, username); err != nil {
		respondError(c, span, log, "Remove user failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}
