package book_slot

import (
	requestBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/request_booking"
)

// BookRequest HTTP request model.
// Форма сайта присылает contactType; contactPreference принимается как синоним.
type BookRequest struct {
	SlotID            string  `json:"slotId"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Message           *string `json:"message,omitempty"`
	ContactType       *string `json:"contactType,omitempty"`
	ContactPreference *string `json:"contactPreference,omitempty"`
}

// BookResponse HTTP response model
type BookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookRequest) ToUseCaseRequest() *requestBooking.Request {
	pref := r.ContactType
	if pref == nil {
		pref = r.ContactPreference
	}
	return &requestBooking.Request{
		SlotID:            r.SlotID,
		Name:              r.Name,
		Email:             r.Email,
		Phone:             r.Phone,
		Message:           r.Message,
		ContactPreference: pref,
	}
}
