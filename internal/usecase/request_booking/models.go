package request_booking

// Request модель заявки посетителя на слот
type Request struct {
	SlotID            string  // ID слота
	Name              string  // Имя клиента
	Email             string  // Email клиента
	Phone             string  // Телефон клиента
	Message           *string // Сообщение коучу (опционально)
	ContactPreference *string // Предпочтительный способ связи (опционально)
}

// Response модель ответа после принятия заявки
type Response struct {
	SlotID string // ID слота
	Date   string // Дата слота
	Time   string // Время слота
	Status string // Новый статус (requested)
}
