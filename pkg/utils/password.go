package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt 摘要自带算法版本/cost/盐（$2a$10$...），后续换参数可按前缀做 rehash
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
