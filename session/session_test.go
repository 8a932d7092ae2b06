package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fmejia/bloggo/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRequestContext(t *testing.T, cookies map[string]string) *gin.Context {
	t.Helper()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/", nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	ctx.Request = req
	return ctx
}

func TestAuthenticateBothCookiesValid(t *testing.T) {
	codec := NewCodec("test-secret")
	m := NewManager(codec)

	ctx := newRequestContext(t, map[string]string{
		CookieUserID:   codec.Sign("7"),
		CookieUserName: codec.Sign("alice"),
	})

	id, ok := m.Authenticate(ctx)
	if !ok {
		t.Fatal("Authenticate = false, want true")
	}
	if id.UserID != 7 || id.Username != "alice" {
		t.Errorf("identity = %+v, want {7 alice}", id)
	}
	if !m.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated = false, want true")
	}
}

func TestAuthenticateRejectsPartialOrForgedCookies(t *testing.T) {
	codec := NewCodec("test-secret")
	forger := NewCodec("other-secret")
	m := NewManager(codec)

	cases := []struct {
		name    string
		cookies map[string]string
	}{
		{"no cookies", nil},
		{"only user_id", map[string]string{CookieUserID: codec.Sign("7")}},
		{"only user_name", map[string]string{CookieUserName: codec.Sign("alice")}},
		{"forged user_id", map[string]string{
			CookieUserID:   forger.Sign("7"),
			CookieUserName: codec.Sign("alice"),
		}},
		{"forged user_name", map[string]string{
			CookieUserID:   codec.Sign("7"),
			CookieUserName: forger.Sign("alice"),
		}},
		{"unsigned values", map[string]string{
			CookieUserID:   "7",
			CookieUserName: "alice",
		}},
		{"non-numeric id", map[string]string{
			CookieUserID:   codec.Sign("notanumber"),
			CookieUserName: codec.Sign("alice"),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newRequestContext(t, tc.cookies)
			if _, ok := m.Authenticate(ctx); ok {
				t.Error("Authenticate = true, want false")
			}
			if m.IsAuthenticated(ctx) {
				t.Error("IsAuthenticated = true, want false")
			}
		})
	}
}

func TestDisplayUsernameDoesNotVerify(t *testing.T) {
	codec := NewCodec("test-secret")
	m := NewManager(codec)

	// An unsigned cookie still yields its value for display-only use.
	ctx := newRequestContext(t, map[string]string{CookieUserName: "alice"})
	if got := m.DisplayUsername(ctx); got != "alice" {
		t.Errorf("DisplayUsername = %q, want alice", got)
	}

	ctx = newRequestContext(t, nil)
	if got := m.DisplayUsername(ctx); got != "" {
		t.Errorf("DisplayUsername with no cookie = %q, want empty", got)
	}
}

func TestLoginIssuesBothSignedCookies(t *testing.T) {
	codec := NewCodec("test-secret")
	m := NewManager(codec)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("POST", "/login", nil)

	m.Login(ctx, &models.User{ID: 7, Username: "alice"})

	cookies := w.Result().Cookies()
	found := map[string]string{}
	for _, c := range cookies {
		if c.Path != "/" {
			t.Errorf("cookie %s path = %q, want /", c.Name, c.Path)
		}
		value, err := url.QueryUnescape(c.Value)
		if err != nil {
			t.Fatalf("unescape cookie %s: %v", c.Name, err)
		}
		found[c.Name] = value
	}

	idToken, ok := found[CookieUserID]
	if !ok || !codec.Verify(idToken) || Value(idToken) != "7" {
		t.Errorf("user_id cookie = %q, want signed 7", idToken)
	}
	nameToken, ok := found[CookieUserName]
	if !ok || !codec.Verify(nameToken) || Value(nameToken) != "alice" {
		t.Errorf("user_name cookie = %q, want signed alice", nameToken)
	}
}

func TestLogoutClearsBothCookies(t *testing.T) {
	codec := NewCodec("test-secret")
	m := NewManager(codec)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("GET", "/logout", nil)

	m.Logout(ctx)

	cleared := map[string]bool{}
	for _, c := range w.Result().Cookies() {
		if c.Value == "" && c.MaxAge < 0 && c.Path == "/" {
			cleared[c.Name] = true
		}
	}
	if !cleared[CookieUserID] || !cleared[CookieUserName] {
		t.Errorf("Logout cleared %v, want both identity cookies", cleared)
	}
}

func TestOwnsPost(t *testing.T) {
	post := &models.Post{UserID: 1, Author: "alice"}

	cases := []struct {
		name string
		id   Identity
		want bool
	}{
		{"both match", Identity{UserID: 1, Username: "alice"}, true},
		{"id differs", Identity{UserID: 2, Username: "alice"}, false},
		{"name differs", Identity{UserID: 1, Username: "mallory"}, false},
		{"both differ", Identity{UserID: 2, Username: "mallory"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OwnsPost(post, tc.id); got != tc.want {
				t.Errorf("OwnsPost = %v, want %v", got, tc.want)
			}
		})
	}
}
