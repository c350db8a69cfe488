package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-account-portal/internal/core/cache"
	sess "go-account-portal/internal/core/session"
	"go-account-portal/internal/domain"
	"go-account-portal/internal/service"
	"go-account-portal/internal/transport/http/handler"
	mdw "go-account-portal/internal/transport/http/middleware"
)

type APIDeps struct {
	Log      *zap.Logger
	Repo     domain.UserRepository
	Svc      *service.AccountService
	Sessions *sess.Manager
	Store    sessions.Store
	Cache    *cache.Cache // 可为 nil
	Cookie   string
}

// NewAPIEngine 门户端：注册/登录/登出 + 受保护首页
func NewAPIEngine(d APIDeps) *gin.Engine {
	handler.RegisterValidations()

	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
		sessions.Sessions(d.Cookie, d.Store),
		mdw.LoadUser(d.Sessions, d.Repo, d.Cache, d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	h := handler.NewAuthHandler(d.Svc, d.Sessions, d.Log)

	// 登录态才能进的页面
	authed := r.Group("", mdw.RequireAuth(handler.PathLogin))
	{
		authed.GET(handler.PathIndex, h.Index)
		authed.GET(handler.PathLogout, h.Logout)
	}

	// 匿名才能进的页面；凭据口再套一层每 IP 限速
	anon := r.Group("", mdw.RequireAnonymous(handler.PathIndex), mdw.RateLimitPerIP(5, 10))
	{
		anon.GET(handler.PathRegister, h.RegisterPage)
		anon.POST(handler.PathRegister, h.Register)
		anon.GET(handler.PathLogin, h.LoginPage)
		anon.POST(handler.PathLogin, h.Login)
	}

	return r
}
