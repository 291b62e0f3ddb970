package request_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var validate = validator.New()

// bookingForm нормализованная заявка, проверяемая тегами validator
type bookingForm struct {
	SlotID            string `validate:"required"`
	Name              string `validate:"required,max=120"`
	Email             string `validate:"required,max=254,email"`
	Phone             string `validate:"required,max=40"`
	Message           string `validate:"max=2000"`
	ContactPreference string `validate:"max=40"`
}

// fieldErrors сопоставляет поле формы с ошибкой usecase
var fieldErrors = map[string]error{
	"SlotID":            ErrMissingSlotID,
	"Name":              ErrInvalidName,
	"Email":             ErrInvalidEmail,
	"Phone":             ErrInvalidPhone,
	"Message":           ErrMessageTooLong,
	"ContactPreference": ErrInvalidContactPreference,
}

// normalizeRequest обрезает пробелы и проверяет заявку.
// Пустые необязательные поля превращаются в nil.
func normalizeRequest(req *Request) (*bookingForm, error) {
	form := &bookingForm{
		SlotID:            strings.TrimSpace(req.SlotID),
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		Message:           trimOptional(req.Message),
		ContactPreference: trimOptional(req.ContactPreference),
	}

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if sentinel, ok := fieldErrors[fe.StructField()]; ok {
				return nil, fmt.Errorf("%w: rule=%s", sentinel, fe.Tag())
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return form, nil
}

// toBooking собирает заявку для записи в слот
func (f *bookingForm) toBooking(requestedAt time.Time) domain.Booking {
	b := domain.Booking{
		Name:        f.Name,
		Email:       f.Email,
		Phone:       f.Phone,
		RequestedAt: requestedAt.UTC(),
	}
	if f.Message != "" {
		msg := f.Message
		b.Message = &msg
	}
	if f.ContactPreference != "" {
		pref := f.ContactPreference
		b.ContactPreference = &pref
	}
	return b
}

func trimOptional(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
