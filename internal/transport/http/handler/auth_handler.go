package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-account-portal/internal/core/session"
	"go-account-portal/internal/domain"
	"go-account-portal/internal/service"
	mdw "go-account-portal/internal/transport/http/middleware"
	resp "go-account-portal/internal/transport/http/response"
)

const (
	PathIndex    = "/"
	PathRegister = "/register/"
	PathLogin    = "/login/"
	PathLogout   = "/logout/"
)

type AuthHandler struct {
	svc      *service.AccountService
	sessions *session.Manager
	log      *zap.Logger
}

func NewAuthHandler(svc *service.AccountService, sm *session.Manager, l *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sm, log: l}
}

// RegisterValidations 挂自定义校验；engine 初始化时调一次
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("distinctrunes", func(fl validator.FieldLevel) bool {
			seen := map[rune]struct{}{}
			for _, r := range fl.Field().String() {
				seen[r] = struct{}{}
			}
			return len(seen) >= 6
		})
	}
}

type registerForm struct {
	Email           string    `form:"email" binding:"required,email"`
	Birthdate       time.Time `form:"birthdate" time_format:"2006-01-02" binding:"required"`
	Password        string    `form:"password" binding:"required,min=8,max=64,distinctrunes"`
	ConfirmPassword string    `form:"confirm_password" binding:"required,eqfield=Password"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Index 受保护首页；网关保证这里一定有用户
func (h *AuthHandler) Index(c *gin.Context) {
	u, _ := mdw.CurrentUser(c)
	c.JSON(http.StatusOK, resp.OK(gin.H{
		"id":    u.ID,
		"email": u.Email,
	}))
}

// RegisterPage GET /register/；表单渲染交给前端，这里只给元信息
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, resp.OK(gin.H{"action": PathRegister, "alt": PathLogin}))
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, resp.OK(gin.H{"action": PathLogin, "alt": PathRegister}))
}

// Register POST /register/
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, resp.New(resp.CodeBadRequest, "validation failed", gin.H{
			"fields": registerFieldErrors(err),
		}))
		return
	}

	_, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Email:     form.Email,
		Password:  form.Password,
		Birthdate: form.Birthdate,
		UserAgent: c.Request.UserAgent(),
	})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, resp.New(resp.CodeConflict,
			"Account exists. Please login instead", gin.H{"login": PathLogin}))
	case err != nil:
		h.log.Error("register", zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "registration failed"))
	default:
		c.Redirect(http.StatusFound, PathLogin)
	}
}

// Login POST /login/；查无此人和密码不对给同一句话
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, resp.New(resp.CodeBadRequest, "validation failed", gin.H{
			"fields": loginFieldErrors(err),
		}))
		return
	}

	u, err := h.svc.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "Wrong email or password"))
	case err != nil:
		h.log.Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "login failed"))
	default:
		if err := h.sessions.Establish(c, u.ID); err != nil {
			h.log.Error("establish session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "login failed"))
			return
		}
		c.Redirect(http.StatusFound, PathIndex)
	}
}

// Logout GET /logout/；幂等，无会话时也是成功
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c); err != nil {
		h.log.Error("destroy session", zap.Error(err))
	}
	c.Set(mdw.ContextUserKey, nil)
	c.Redirect(http.StatusFound, PathLogin)
}

// 字段级错误翻译；非校验错误（如日期解析失败）归到对应字段的通用提示
func registerFieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["birthdate"] = "Please fill this field."
		return out
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Email":
			if fe.Tag() == "required" {
				out["email"] = "Please enter your email."
			} else {
				out["email"] = "Invalid email address."
			}
		case "Birthdate":
			out["birthdate"] = "Please fill this field."
		case "Password":
			switch fe.Tag() {
			case "required":
				out["password"] = "Please create a password."
			case "distinctrunes":
				out["password"] = "Password must contain at least 6 unique characters."
			default:
				out["password"] = "Password must be 8-64 characters."
			}
		case "ConfirmPassword":
			if fe.Tag() == "required" {
				out["confirm_password"] = "Please confirm your password."
			} else {
				out["confirm_password"] = "Passwords don't match."
			}
		}
	}
	return out
}

func loginFieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Email":
			out["email"] = "Please enter your email address."
		case "Password":
			out["password"] = "Please enter your password."
		}
	}
	return out
}
