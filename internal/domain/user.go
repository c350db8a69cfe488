package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string         `gorm:"size:191;not null" json:"-"`
	Birthdate    time.Time      `gorm:"not null" json:"birthdate"`
	CreatedAt    time.Time      `json:"createdAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Devices []Device `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

// Device 注册时记录的客户端指纹；同一用户同一 UA 只留一条
type Device struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"size:36;not null;uniqueIndex:idx_devices_owner_agent" json:"userId"`
	UserAgent string         `gorm:"size:255;not null;uniqueIndex:idx_devices_owner_agent" json:"userAgent"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Device) TableName() string { return "devices" }

type ListQuery struct {
	Offset      int
	Limit       int
	Q           string // 按 email 模糊搜
	WithDeleted bool   // 是否包含软删
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindDeviceByUserAgent(ctx context.Context, userID, userAgent string) (*Device, error)
	List(ctx context.Context, q ListQuery) ([]User, int64, error)
	SoftDelete(ctx context.Context, id string) error
}
