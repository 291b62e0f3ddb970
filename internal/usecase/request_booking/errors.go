package request_booking

import "errors"

var (
	// ErrMissingSlotID возвращается, когда не указан slotId
	ErrMissingSlotID = errors.New("request_booking: slot id is required")

	// ErrInvalidName возвращается при пустом или слишком длинном имени
	ErrInvalidName = errors.New("request_booking: invalid name")

	// ErrInvalidEmail возвращается при некорректном email
	ErrInvalidEmail = errors.New("request_booking: invalid email")

	// ErrInvalidPhone возвращается при пустом или слишком длинном телефоне
	ErrInvalidPhone = errors.New("request_booking: invalid phone")

	// ErrMessageTooLong возвращается, когда сообщение превышает допустимую длину
	ErrMessageTooLong = errors.New("request_booking: message is too long")

	// ErrInvalidContactPreference возвращается при слишком длинном способе связи
	ErrInvalidContactPreference = errors.New("request_booking: invalid contact preference")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("request_booking: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже не открыт для записи
	ErrSlotNotAvailable = errors.New("request_booking: slot is no longer available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_booking: internal error")
)
