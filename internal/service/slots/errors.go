package slots

import "errors"

var (
	// ErrUnauthorized возвращается, когда админская операция вызвана без авторизации
	ErrUnauthorized = errors.New("slots: unauthorized")

	// ErrInvalidInput возвращается при отсутствии обязательных полей
	ErrInvalidInput = errors.New("slots: invalid input data")

	// ErrInvalidDate возвращается при дате не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("slots: invalid date, expected YYYY-MM-DD")

	// ErrInvalidTime возвращается при времени не в формате HH:MM
	ErrInvalidTime = errors.New("slots: invalid time, expected HH:MM")

	// ErrInvalidDuration возвращается при длительности вне допустимого набора
	ErrInvalidDuration = errors.New("slots: invalid duration")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
