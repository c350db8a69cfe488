package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-account-portal/internal/core/cache"
	"go-account-portal/internal/core/session"
	"go-account-portal/internal/domain"
)

// ContextUserKey 请求内传递已登录用户的 key；不跨请求持久化
const ContextUserKey = "auth.user"

const userCacheTTL = 30 * time.Second

// LoadUser 每个请求先跑：会话 → 用户，挂到 gin 上下文。
// ch 为 nil 时直接查库（redis 可选）
func LoadUser(sm *session.Manager, repo domain.UserRepository, ch *cache.Cache, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := sm.UserID(c)
		if !ok {
			c.Next()
			return
		}

		u, err := lookupUser(c, repo, ch, uid)
		if err != nil {
			l.Error("load session user", zap.String("uid", uid), zap.Error(err))
			c.Next()
			return
		}
		// 会话指向的用户已被删除 → 当作未登录
		if u != nil {
			c.Set(ContextUserKey, u)
		}
		c.Next()
	}
}

func lookupUser(c *gin.Context, repo domain.UserRepository, ch *cache.Cache, uid string) (*domain.User, error) {
	if ch == nil {
		return repo.FindByID(c.Request.Context(), uid)
	}
	return cache.GetOrLoadJSON[domain.User](ch, c.Request.Context(), "user:"+uid, userCacheTTL,
		func(ctx context.Context) (*domain.User, error) {
			return repo.FindByID(ctx, uid)
		})
}

// CurrentUser handler 侧读取已挂载的用户
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}

// RequireAuth 未登录重定向到登录页
func RequireAuth(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnonymous 已登录重定向到首页（防止重复注册/登录）
func RequireAnonymous(indexPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Redirect(http.StatusFound, indexPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
