package domain

import "errors"

// 业务侧哨兵错误，handler 据此映射 HTTP 语义
var (
	ErrEmailTaken         = errors.New("account already exists")
	ErrDeviceExists       = errors.New("device already registered")
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrUserNotFound       = errors.New("user not found")
)
