package session

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", NewStore("test-secret-0123456789abcdef", time.Hour, false)))
	r.POST("/set", func(c *gin.Context) {
		if err := m.Establish(c, "uid-42"); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		uid, ok := m.UserID(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, uid)
	})
	r.POST("/del", func(c *gin.Context) {
		if err := m.Destroy(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func TestSessionLifecycle(t *testing.T) {
	m := &Manager{MaxAge: time.Hour}
	srv := httptest.NewServer(newTestEngine(m))
	defer srv.Close()
	client := newClient(t)

	// 无会话
	res, err := client.Get(srv.URL + "/get")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// 建立
	res, err = client.Post(srv.URL+"/set", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, err = client.Get(srv.URL + "/get")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// 销毁后再读失败
	res, err = client.Post(srv.URL+"/del", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, err = client.Get(srv.URL + "/get")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSessionExpiry(t *testing.T) {
	// MaxAge 为 0 视为立即过期
	m := &Manager{MaxAge: 0}
	srv := httptest.NewServer(newTestEngine(m))
	defer srv.Close()
	client := newClient(t)

	res, err := client.Post(srv.URL+"/set", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	time.Sleep(10 * time.Millisecond)
	res, err = client.Get(srv.URL + "/get")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestDestroyWithoutSessionIsNoop(t *testing.T) {
	m := &Manager{MaxAge: time.Hour}
	srv := httptest.NewServer(newTestEngine(m))
	defer srv.Close()
	client := newClient(t)

	res, err := client.Post(srv.URL+"/del", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
