package approval

import (
	"crypto/subtle"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Issuer выдает одноразовые токены подтверждения бронирования.
// Токен не имеет срока жизни: он действителен, пока слот ожидает решения.
type Issuer struct {
	generate func() string
}

// NewIssuer создает Issuer на случайных UUIDv4 (122 бита энтропии)
func NewIssuer() *Issuer {
	return &Issuer{generate: uuid.NewString}
}

// NewIssuerWithGenerator нужен тестам для предсказуемых токенов
func NewIssuerWithGenerator(generate func() string) *Issuer {
	return &Issuer{generate: generate}
}

// Issue возвращает новый токен для слота
func (i *Issuer) Issue(slotID string) string {
	return i.generate()
}

// Validate сравнивает токен со слотом за постоянное время.
// Пустые значения и слоты, не ожидающие решения, никогда не проходят проверку.
func (i *Issuer) Validate(slot *domain.Slot, supplied string) bool {
	if slot == nil || supplied == "" || !slot.IsAwaitingDecision() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(slot.ApprovalToken), []byte(supplied)) == 1
}
