package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/rmedina-dev/inventario/internal/database"
	"github.com/rmedina-dev/inventario/internal/logger"
	"github.com/rmedina-dev/inventario/internal/model"
)

const SessionName = "inventario-session"

type AuthHandler struct {
	Store *sessions.CookieStore
}

// CredentialsInput holds a username/password form submission. The same form
// serves login, registration and the delete confirmation.
type CredentialsInput struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// takeFlashes drains the pending flash messages into template data and saves
// the session so they are not shown twice.
func takeFlashes(c *gin.Context, session *sessions.Session) gin.H {
	data := gin.H{
		"FlashesSuccess": session.Flashes("success"),
		"FlashesError":   session.Flashes("error"),
		"FlashesInfo":    session.Flashes("info"),
	}
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to save session while draining flashes")
	}
	return data
}

// flashAndRedirect queues a flash message and sends the client elsewhere.
func flashAndRedirect(c *gin.Context, session *sessions.Session, severity, message, location string) {
	session.AddFlash(message, severity)
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to save session flash")
	}
	c.Redirect(http.StatusFound, location)
}

// ShowLoginPage renders the login form.
func (h *AuthHandler) ShowLoginPage(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	data := takeFlashes(c, session)
	data["IsLoggedIn"] = false
	c.HTML(http.StatusOK, "login.html", data)
}

// ProcessLoginForm authenticates the submitted credentials and marks the
// session. Unknown user and wrong password get the same message.
func (h *AuthHandler) ProcessLoginForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)

	var input CredentialsInput
	if err := c.ShouldBind(&input); err != nil {
		flashAndRedirect(c, session, "error", "Username and password are required.", "/login")
		return
	}

	var user model.User
	result := database.DB.Where("username = ?", input.Username).First(&user)
	if result.Error != nil || !user.CheckPassword(input.Password) {
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Log.Error().Err(result.Error).Msg("login lookup failed")
		}
		flashAndRedirect(c, session, "error", "Incorrect username or password.", "/login")
		return
	}

	session.Values["userID"] = user.ID
	session.AddFlash("Logged in successfully.", "success")
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.Log.Error().Err(err).Msg("failed to save login session")
		c.String(http.StatusInternalServerError, "Could not start the session.")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowRegisterPage renders the registration form.
func (h *AuthHandler) ShowRegisterPage(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	data := takeFlashes(c, session)
	data["IsLoggedIn"] = false
	c.HTML(http.StatusOK, "register.html", data)
}

// ProcessRegisterForm creates a new account. Duplicate usernames are rejected
// by the unique constraint and surfaced as a flash message.
func (h *AuthHandler) ProcessRegisterForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)

	var input CredentialsInput
	if err := c.ShouldBind(&input); err != nil {
		flashAndRedirect(c, session, "error", "Username and password are required.", "/register")
		return
	}

	user := model.User{Username: input.Username}
	if err := user.SetPassword(input.Password); err != nil {
		flashAndRedirect(c, session, "error", "Could not process the password. Try again.", "/register")
		return
	}

	if err := database.DB.Create(&user).Error; err != nil {
		if isDuplicateKeyError(err) {
			flashAndRedirect(c, session, "error", "That username is already taken.", "/register")
			return
		}
		logger.Log.Error().Err(err).Msg("failed to create account")
		flashAndRedirect(c, session, "error", "Could not create the account. Try again.", "/register")
		return
	}

	flashAndRedirect(c, session, "success", "Registration successful, you can now log in.", "/login")
}

func isDuplicateKeyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// Logout clears the authenticated state but keeps the session cookie alive so
// the goodbye flash survives the redirect.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	delete(session.Values, "userID")
	flashAndRedirect(c, session, "info", "You have been logged out.", "/login")
}

// AuthRequired gates every data route: requests without an authenticated
// session are redirected to the login form and the intended action dropped.
func (h *AuthHandler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := h.Store.Get(c.Request, SessionName)
		userID, ok := session.Values["userID"].(uint)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		var user model.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			// Stale session pointing at a user that no longer exists.
			delete(session.Values, "userID")
			if err := session.Save(c.Request, c.Writer); err != nil {
				logger.Log.Warn().Err(err).Msg("failed to clear stale session")
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
