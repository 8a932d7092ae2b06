package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fmejia/bloggo/render"
	"github.com/fmejia/bloggo/session"
	"github.com/fmejia/bloggo/store"
	"github.com/fmejia/bloggo/utils"
)

// AuthController handles signup, login and logout.
type AuthController struct {
	users    *store.UserStore
	sessions *session.Manager
	view     render.Renderer
}

// NewAuthController creates an AuthController.
func NewAuthController(users *store.UserStore, sessions *session.Manager, view render.Renderer) *AuthController {
	return &AuthController{users: users, sessions: sessions, view: view}
}

// SignupPage renders the empty signup form.
func (a *AuthController) SignupPage(ctx *gin.Context) {
	a.view.Render(ctx, http.StatusOK, "sign-up.html", gin.H{})
}

// Signup validates the submitted fields and creates the account. On any
// failure the same form is re-rendered with field-specific messages, keeping
// the previously entered username and email but never the password.
func (a *AuthController) Signup(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")
	verify := ctx.PostForm("verify")
	email := strings.TrimSpace(ctx.PostForm("email"))

	params := gin.H{
		"username": username,
		"email":    email,
	}
	haveError := false

	if !utils.ValidUsername(username) {
		params["error_username"] = "That's not a valid username."
		haveError = true
	}
	if !utils.ValidPassword(password) {
		params["error_password"] = "That wasn't a valid password."
		haveError = true
	} else if password != verify {
		params["error_verify"] = "Your passwords didn't match."
		haveError = true
	}
	if !utils.ValidEmail(email) {
		params["error_email"] = "That's not a valid email."
		haveError = true
	}
	if !haveError {
		if _, err := a.users.FindByName(username); err == nil {
			params["user_taken"] = "This username is already taken"
			haveError = true
		}
	}

	if haveError {
		a.view.Render(ctx, http.StatusOK, "sign-up.html", params)
		return
	}

	user, err := a.users.Register(username, password, email)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			params["user_taken"] = "This username is already taken"
			a.view.Render(ctx, http.StatusOK, "sign-up.html", params)
			return
		}
		utils.Sugar.Errorf("signup failed for %q: %v", username, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	a.sessions.Login(ctx, user)
	ctx.Redirect(http.StatusFound, "/")
}

// LoginPage renders the login form, or sends already-identified visitors home.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	if a.sessions.DisplayUsername(ctx) != "" {
		ctx.Redirect(http.StatusFound, "/")
		return
	}
	a.view.Render(ctx, http.StatusOK, "login.html", gin.H{})
}

// Login checks the credentials and issues both signed identity cookies.
func (a *AuthController) Login(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")

	params := gin.H{"username": username}
	haveError := false

	if !utils.ValidUsername(username) {
		params["error_username"] = "That's not a valid username."
		haveError = true
	}
	if !utils.ValidPassword(password) {
		params["error_password"] = "That wasn't a valid password."
		haveError = true
	}
	if haveError {
		a.view.Render(ctx, http.StatusOK, "login.html", params)
		return
	}

	user, err := a.users.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			params["credential_error"] = "There seems to be an error with your credentials, please check"
			a.view.Render(ctx, http.StatusOK, "login.html", params)
			return
		}
		utils.Sugar.Errorf("login failed for %q: %v", username, err)
		ctx.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	a.sessions.Login(ctx, user)
	ctx.Redirect(http.StatusFound, "/")
}

// Logout clears both identity cookies and sends the visitor home.
func (a *AuthController) Logout(ctx *gin.Context) {
	a.sessions.Logout(ctx)
	ctx.Redirect(http.StatusFound, "/")
}
