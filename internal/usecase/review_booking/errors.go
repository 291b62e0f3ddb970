package review_booking

import "errors"

var (
	// ErrInvalidDecision возвращается для решения, отличного от approve/decline
	ErrInvalidDecision = errors.New("review_booking: invalid decision")

	// ErrInternal возвращается при внутренних ошибках usecase (недоступно хранилище)
	ErrInternal = errors.New("review_booking: internal error")
)
