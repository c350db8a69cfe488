package session

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	keyUserID   = "user_id"
	keyIssuedAt = "issued_at"
)

// NewStore 构造签名 cookie 存储；token 对客户端不透明（securecookie 签名+加密）
func NewStore(secret string, maxAge time.Duration, secure bool) sessions.Store {
	st := cookie.NewStore([]byte(secret))
	st.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

// Manager 把「会话 ↔ 用户 ID」的读写收口到一处
type Manager struct {
	MaxAge time.Duration
}

// Establish 登录成功后建立会话，只存用户 ID 和签发时间
func (m *Manager) Establish(c *gin.Context, userID string) error {
	s := sessions.Default(c)
	s.Set(keyUserID, userID)
	s.Set(keyIssuedAt, time.Now().Unix())
	return s.Save()
}

// UserID 解析当前会话；缺失、畸形或过期一律返回 false
func (m *Manager) UserID(c *gin.Context) (string, bool) {
	s := sessions.Default(c)
	uid, ok := s.Get(keyUserID).(string)
	if !ok || uid == "" {
		return "", false
	}
	issued := readUnix(s.Get(keyIssuedAt))
	if issued.IsZero() || time.Since(issued) > m.MaxAge {
		s.Clear()
		_ = s.Save()
		return "", false
	}
	return uid, true
}

// Destroy 立刻作废会话；没有会话时也是成功（登出幂等）
func (m *Manager) Destroy(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}
