package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func TestCookieOverrideStoreSetID(t *testing.T) {
	c, recorder := newTestContext(t)
	store := NewCookieOverrideStore(c)

	store.SetID(42, 7*24*time.Hour)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "tenant-override-id", cookie.Name)
	assert.Equal(t, "42", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestCookieOverrideStoreGetID(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.AddCookie(&http.Cookie{Name: "tenant-override-id", Value: "7"})

	store := NewCookieOverrideStore(c)
	id, ok := store.GetID()
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
}

func TestCookieOverrideStoreGetIDMissing(t *testing.T) {
	c, _ := newTestContext(t)

	store := NewCookieOverrideStore(c)
	_, ok := store.GetID()
	assert.False(t, ok)
}

func TestCookieOverrideStoreGetIDGarbage(t *testing.T) {
	// 值无法解析时按不存在处理，cookie不承载任何授权，不需要报错
	cases := []string{"abc", "-1", "0", ""}
	for _, value := range cases {
		c, _ := newTestContext(t)
		c.Request.AddCookie(&http.Cookie{Name: "tenant-override-id", Value: value})

		store := NewCookieOverrideStore(c)
		_, ok := store.GetID()
		assert.False(t, ok, "value=%q", value)
	}
}

func TestCookieOverrideStoreClearID(t *testing.T) {
	c, recorder := newTestContext(t)
	store := NewCookieOverrideStore(c)

	store.ClearID()

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tenant-override-id", cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestCookieOverrideStoreLabelRoundTrip(t *testing.T) {
	c, recorder := newTestContext(t)
	store := NewCookieOverrideStore(c)

	store.SetLabel("Arena Club", 7*24*time.Hour)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tenant-override-name", cookies[0].Name)
	// 展示cookie前端要读，不设HttpOnly
	assert.False(t, cookies[0].HttpOnly)

	c2, _ := newTestContext(t)
	c2.Request.AddCookie(&http.Cookie{Name: "tenant-override-name", Value: cookies[0].Value})
	label, ok := NewCookieOverrideStore(c2).GetLabel()
	assert.True(t, ok)
	assert.Equal(t, "Arena Club", label)
}
