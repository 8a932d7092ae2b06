package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fmejia/bloggo/session"
	"github.com/fmejia/bloggo/utils"
)

const testSecret = "test-secret"

// setupTest puts gin in test mode, silences the shared logger and makes sure
// config loading can succeed when a cache call reaches it.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("COOKIE_SECRET", testSecret)
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func newTestEngine() *gin.Engine {
	return gin.New()
}

func newSessions() (*session.Manager, *session.Codec) {
	codec := session.NewCodec(testSecret)
	return session.NewManager(codec), codec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// signIn attaches both signed identity cookies to the request.
func signIn(req *http.Request, codec *session.Codec, userID uint, username string) {
	req.AddCookie(&http.Cookie{
		Name:  session.CookieUserID,
		Value: codec.Sign(strconv.FormatUint(uint64(userID), 10)),
	})
	req.AddCookie(&http.Cookie{
		Name:  session.CookieUserName,
		Value: codec.Sign(username),
	})
}

func responseCookie(resp *http.Response, name string) (*http.Cookie, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
