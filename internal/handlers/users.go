package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"user_manager/internal/models"
	"user_manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Plain-text responses and form messages shown to the browser.
const (
	msgQueryError       = "Error executing query"
	msgUserNotFound     = "User not found"
	msgLookupFailed     = "Database query failed"
	msgPasswordMismatch = "Password does not match"
	msgUpdateFailed     = "Failed to update user"
	msgInvalidForm      = "Invalid form submission"

	msgDuplicateCheckFailed = "A database error occurred. Please try again."
	msgEmailExists          = "A user with this email address already exists."
	msgUsernameTaken        = "This username is already taken. Please choose another."
	msgCreateFailed         = "Failed to create account. Please try again."

	msgDeletePasswordMismatch = "Incorrect password. Deletion cancelled."
	msgDeleteFailed           = "Could not delete user due to a database error."
)

// maxFormBytes matches the limit net/http applies when it parses a body.
const maxFormBytes = 10 << 20

// Fields are taken as submitted. Empty values are stored and compared like
// any other value.

type newUserForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type updateUserForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type deleteUserForm struct {
	Password string `form:"password"`
}

func (h *Handler) home(c *gin.Context) {
	count, err := h.services.Users.Count(c.Request.Context())
	if err != nil {
		h.log.Errorw("user_count_failed", "err", err)
		c.String(http.StatusOK, msgQueryError)
		return
	}
	c.HTML(http.StatusOK, "home.tmpl", gin.H{"Title": "Home", "Count": count})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.log.Errorw("user_list_failed", "err", err)
		c.String(http.StatusOK, msgQueryError)
		return
	}
	c.HTML(http.StatusOK, "users.tmpl", gin.H{"Title": "Users", "Users": users})
}

func (h *Handler) newUserForm(c *gin.Context) {
	h.renderNew(c, newUserForm{}, "")
}

func (h *Handler) createUser(c *gin.Context) {
	var form newUserForm
	if err := bindForm(c, &form); err != nil {
		h.log.Infow("user_create_invalid_form", "err", err)
		c.String(http.StatusBadRequest, msgInvalidForm)
		return
	}

	u, err := h.services.Users.Create(c.Request.Context(), service.NewUserParams{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		h.renderNew(c, form, h.createErrorMessage(err, form))
		return
	}

	h.log.Infow("user_created", "id", u.ID, "username", u.Username)
	c.Redirect(http.StatusFound, "/user")
}

func (h *Handler) createErrorMessage(err error, form newUserForm) string {
	switch {
	case errors.Is(err, service.ErrEmailExists):
		return msgEmailExists
	case errors.Is(err, service.ErrUsernameTaken):
		return msgUsernameTaken
	case errors.Is(err, service.ErrDuplicateCheckFailed):
		h.log.Errorw("user_duplicate_check_failed", "err", err, "username", form.Username, "email", form.Email)
		return msgDuplicateCheckFailed
	default:
		h.log.Errorw("user_create_failed", "err", err, "username", form.Username, "email", form.Email)
		return msgCreateFailed
	}
}

func (h *Handler) renderNew(c *gin.Context, form newUserForm, msg string) {
	form.Password = ""
	c.HTML(http.StatusOK, "new.tmpl", gin.H{"Title": "New user", "Form": form, "Error": msg})
}

func (h *Handler) editUserForm(c *gin.Context) {
	u, err := h.services.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit.tmpl", gin.H{"Title": "Edit user", "User": u})
}

func (h *Handler) updateUser(c *gin.Context) {
	var form updateUserForm
	if err := bindForm(c, &form); err != nil {
		h.log.Infow("user_update_invalid_form", "err", err)
		c.String(http.StatusBadRequest, msgInvalidForm)
		return
	}

	id := c.Param("id")
	_, err := h.services.Users.UpdateUsername(c.Request.Context(), id, form.Username, form.Password)
	switch {
	case err == nil:
		h.log.Infow("user_updated", "id", id, "username", form.Username)
		c.Redirect(http.StatusFound, "/user")
	case errors.Is(err, service.ErrPasswordMismatch):
		c.String(http.StatusForbidden, msgPasswordMismatch)
	case errors.Is(err, service.ErrUpdateFailed):
		h.log.Errorw("user_update_failed", "err", err, "id", id)
		c.String(http.StatusInternalServerError, msgUpdateFailed)
	default:
		h.lookupFailed(c, err)
	}
}

func (h *Handler) deleteUserForm(c *gin.Context) {
	u, err := h.services.Users.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	h.renderDelete(c, u, "")
}

func (h *Handler) deleteUser(c *gin.Context) {
	var form deleteUserForm
	if err := bindForm(c, &form); err != nil {
		h.log.Infow("user_delete_invalid_form", "err", err)
		c.String(http.StatusBadRequest, msgInvalidForm)
		return
	}

	id := c.Param("id")
	u, err := h.services.Users.Delete(c.Request.Context(), id, form.Password)
	switch {
	case err == nil:
		h.log.Infow("user_deleted", "id", id)
		c.Redirect(http.StatusFound, "/user")
	case errors.Is(err, service.ErrPasswordMismatch):
		h.renderDelete(c, u, msgDeletePasswordMismatch)
	case errors.Is(err, service.ErrDeleteFailed):
		h.log.Errorw("user_delete_failed", "err", err, "id", id)
		h.renderDelete(c, u, msgDeleteFailed)
	default:
		h.lookupFailed(c, err)
	}
}

func (h *Handler) renderDelete(c *gin.Context, u *models.User, msg string) {
	view := models.User{ID: u.ID, Username: u.Username, Email: u.Email}
	c.HTML(http.StatusOK, "delete.tmpl", gin.H{"Title": "Delete user", "User": view, "Error": msg})
}

// lookupFailed answers a failed read-before-render or read-before-mutate.
func (h *Handler) lookupFailed(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.String(http.StatusNotFound, msgUserNotFound)
		return
	}
	h.log.Errorw("user_lookup_failed", "err", err, "id", c.Param("id"))
	c.String(http.StatusInternalServerError, msgLookupFailed)
}

// bindForm maps the submitted form onto dst. net/http only reads the body of
// POST, PUT and PATCH requests, so a urlencoded DELETE body is parsed here.
// An absent field binds as the empty string.
func bindForm(c *gin.Context, dst any) error {
	r := c.Request
	if err := formParseError(r); err != nil {
		return err
	}
	if r.Method == http.MethodDelete && r.PostForm == nil && c.ContentType() == binding.MIMEPOSTForm {
		r.Body = http.MaxBytesReader(c.Writer, r.Body, maxFormBytes)
		raw, err := c.GetRawData()
		if err != nil {
			return err
		}
		vals, err := url.ParseQuery(string(raw))
		if err != nil {
			return err
		}
		r.PostForm = vals
	}
	return c.ShouldBind(dst)
}
