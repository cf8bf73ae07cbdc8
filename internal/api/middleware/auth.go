// Package middleware промежуточные обработчики HTTP: аутентификация и метрики
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/api/handlers"
)

// HeaderCustomerID заголовок с идентификатором клиента
// Сервис живёт за API-гейтвеем, который проставляет заголовок после проверки токена
const HeaderCustomerID = "X-Customer-ID"

type customerIDKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает ID клиента из заголовка и кладет его в контекст запроса.
// Запросы без валидного заголовка отклоняются с 401.
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderCustomerID)
			if raw == "" {
				logger.Warn("auth: missing %s header: %s %s", HeaderCustomerID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "отсутствует идентификатор клиента")
				return
			}

			customerID, err := uuid.Parse(raw)
			if err != nil {
				logger.Warn("auth: invalid %s header: %s %s", HeaderCustomerID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "некорректный идентификатор клиента")
				return
			}

			ctx := context.WithValue(r.Context(), customerIDKey{}, customerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCustomerID возвращает ID клиента из контекста запроса
func GetCustomerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(customerIDKey{}).(uuid.UUID)
	return id, ok
}
