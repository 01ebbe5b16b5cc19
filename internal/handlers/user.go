package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchshop/internal/apperrors"
	"watchshop/internal/logs"
	"watchshop/internal/models"
)

// UserParam is the path parameter shared by the user routes. It holds the email
// on the admin-status lookup and the user id everywhere else.
const UserParam = "user"

// RegisterUser inserts the user unless one with the same email already exists.
// The check and the insert are separate calls, so two concurrent registrations
// for one email can both succeed.
func (h *Handler) RegisterUser(c *gin.Context) {
	var reg models.Registration
	if err := bindJSON(c, &reg); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	existing, err := h.repos.Users.FindByEmail(ctx, reg.Email)
	if err != nil {
		fail(c, err)
		return
	}
	if existing != nil {
		c.JSON(apperrors.Status(apperrors.ErrDuplicateUser), gin.H{"message": apperrors.Message(apperrors.ErrDuplicateUser)})
		return
	}

	user := reg.User()
	res, err := h.repos.Users.Insert(ctx, &user)
	if err != nil {
		fail(c, err)
		return
	}

	logs.FromContext(ctx).Info("user registered", slog.String("email", user.Email))
	c.JSON(http.StatusOK, newInsertAck(res))
}

func (h *Handler) ListUsers(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	users, err := h.repos.Users.FindAll(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminStatus reports whether the user with the email in the path is an
// administrator. An unknown email is not an administrator.
func (h *Handler) AdminStatus(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	user, err := h.repos.Users.FindByEmail(ctx, c.Param(UserParam))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}

func (h *Handler) GrantAdmin(c *gin.Context) {
	id, err := objectIDParam(c, UserParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.repos.Users.SetRole(ctx, id, models.RoleAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	logs.FromContext(ctx).Warn("admin role granted",
		slog.String("user_id", id.Hex()),
		slog.Int64("modified", res.ModifiedCount),
	)
	c.JSON(http.StatusOK, newUpdateAck(res))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := objectIDParam(c, UserParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.repos.Users.Delete(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDeleteAck(res))
}
