package handlers

import (
	"errors"
	"net/http"

	"user_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      List users
// @Description  All users without passwords.
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, users"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users [get]
func (h *Handler) apiListUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.log.Errorw("api_user_list_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users/{id} [get]
func (h *Handler) apiGetUser(c *gin.Context) {
	u, err := h.services.Users.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Errorw("api_user_get_failed", "err", err, "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      User statistics
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.UserStats
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/stats [get]
func (h *Handler) apiStats(c *gin.Context) {
	st, err := h.services.Stats.GetStats(c.Request.Context())
	if err != nil {
		h.log.Errorw("api_stats_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, st)
}
