package session

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fmejia/bloggo/models"
)

const (
	// CookieUserID carries the signed numeric user id.
	CookieUserID = "user_id"
	// CookieUserName carries the signed username.
	CookieUserName = "user_name"
)

// Identity is a verified (user id, username) pair extracted from the cookies.
// It only ever exists after both cookies passed signature verification.
type Identity struct {
	UserID   uint
	Username string
}

// Manager derives request identity from signed cookies. It is stateless; any
// number of concurrent requests may share one Manager.
type Manager struct {
	codec *Codec
}

// NewManager creates a Manager around the given codec.
func NewManager(codec *Codec) *Manager {
	return &Manager{codec: codec}
}

// IsAuthenticated reports whether BOTH identity cookies are present and both
// independently verify. A single missing or forged cookie fails the whole check.
func (m *Manager) IsAuthenticated(ctx *gin.Context) bool {
	_, ok := m.Authenticate(ctx)
	return ok
}

// Authenticate verifies both cookies and returns the identity they carry.
// The returned Identity is the only value authorization decisions may use;
// any verification failure resolves to "unauthenticated", never an error.
func (m *Manager) Authenticate(ctx *gin.Context) (Identity, bool) {
	idToken, err := ctx.Cookie(CookieUserID)
	if err != nil || !m.codec.Verify(idToken) {
		return Identity{}, false
	}
	nameToken, err := ctx.Cookie(CookieUserName)
	if err != nil || !m.codec.Verify(nameToken) {
		return Identity{}, false
	}

	id, err := strconv.ParseUint(Value(idToken), 10, 64)
	if err != nil || id == 0 {
		return Identity{}, false
	}
	username := Value(nameToken)
	if username == "" {
		return Identity{}, false
	}
	return Identity{UserID: uint(id), Username: username}, true
}

// DisplayUsername returns the raw value portion of the username cookie without
// verifying the signature. Display-only contexts (the home page greeting) may
// use it; authorization must go through Authenticate.
func (m *Manager) DisplayUsername(ctx *gin.Context) string {
	token, err := ctx.Cookie(CookieUserName)
	if err != nil {
		return ""
	}
	return Value(token)
}

// Login issues both signed identity cookies scoped to path /.
func (m *Manager) Login(ctx *gin.Context, user *models.User) {
	ctx.SetCookie(CookieUserID, m.codec.Sign(strconv.FormatUint(uint64(user.ID), 10)), 0, "/", "", false, true)
	ctx.SetCookie(CookieUserName, m.codec.Sign(user.Username), 0, "/", "", false, true)
}

// Logout overwrites both cookies with expired empty values scoped to path /.
func (m *Manager) Logout(ctx *gin.Context) {
	ctx.SetCookie(CookieUserID, "", -1, "/", "", false, true)
	ctx.SetCookie(CookieUserName, "", -1, "/", "", false, true)
}

// OwnsPost reports whether the identity owns the post. Both the denormalized
// author name and the user id must match; a cookie forged on either field
// alone does not pass.
func OwnsPost(post *models.Post, id Identity) bool {
	return post.Author == id.Username && post.UserID == id.UserID
}
