package adminauth

import (
	"crypto/subtle"
	"strings"
)

const bearerPrefix = "Bearer "

// Authorizer проверяет общий секрет администратора.
// Пустой секрет полностью отключает административный доступ.
type Authorizer struct {
	secret []byte
}

// NewAuthorizer создает Authorizer с заданным секретом
func NewAuthorizer(secret string) *Authorizer {
	return &Authorizer{secret: []byte(secret)}
}

// Enabled сообщает, настроен ли секрет
func (a *Authorizer) Enabled() bool {
	return len(a.secret) > 0
}

// CheckPassword сравнивает пароль с секретом за постоянное время
func (a *Authorizer) CheckPassword(password string) bool {
	if !a.Enabled() || password == "" {
		return false
	}
	return subtle.ConstantTimeCompare(a.secret, []byte(password)) == 1
}

// CheckBearer проверяет значение заголовка Authorization: Bearer <secret>
func (a *Authorizer) CheckBearer(header string) bool {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return false
	}
	return a.CheckPassword(strings.TrimSpace(header[len(bearerPrefix):]))
}
