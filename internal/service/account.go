package service

import (
	"context"
	"strings"
	"time"

	"go-account-portal/internal/domain"
	"go-account-portal/pkg/utils"
)

// 未知邮箱时也跑一次 bcrypt 比对，避免登录耗时泄露账号是否存在
var dummyHash, _ = utils.HashPassword("account-portal-dummy")

type AccountService struct {
	repo domain.UserRepository
}

func NewAccountService(repo domain.UserRepository) *AccountService {
	return &AccountService{repo: repo}
}

type RegisterInput struct {
	Email     string
	Password  string
	Birthdate time.Time
	UserAgent string // 来自请求头，空则不建 Device
}

// Register 创建账号；邮箱已占用返回 ErrEmailTaken（预检 + 落库唯一约束双保险）
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(in.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		Birthdate:    in.Birthdate,
	}
	// 设备指纹按用户维度去重；(user_id, user_agent) 唯一约束兜底并发
	if ua := strings.TrimSpace(in.UserAgent); ua != "" {
		existing, err := s.repo.FindDeviceByUserAgent(ctx, u.ID, ua)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			u.Devices = append(u.Devices, domain.Device{
				ID:        utils.NewID(),
				UserAgent: ua,
			})
		}
	}

	if err := s.repo.Create(ctx, u); err != nil {
		// 并发注册同邮箱：唯一约束抢先，统一报账号已存在
		if err == domain.ErrEmailTaken || err == domain.ErrDeviceExists {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate 邮箱不存在和密码错误返回同一个错误，不向客户端区分
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		utils.CheckPassword(password, dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
