package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const adminKey contextKey = "isAdmin"

// BearerChecker проверяет заголовок Authorization
type BearerChecker interface {
	CheckBearer(header string) bool
}

// AdminAuth кладет в контекст признак авторизации админа.
// Запрос не отклоняется: решение принимает сервис по флагу Authorized.
func AdminAuth(checker BearerChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok := checker.CheckBearer(r.Header.Get("Authorization"))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey, ok)))
		})
	}
}

// IsAdmin возвращает true, если AdminAuth принял токен
func IsAdmin(ctx context.Context) bool {
	ok, _ := ctx.Value(adminKey).(bool)
	return ok
}
