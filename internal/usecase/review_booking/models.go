package review_booking

// Decision решение коуча по заявке
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDecline Decision = "decline"
)

// Outcome результат обработки ссылки из письма.
// Конфликты состояния не считаются ошибками и возвращаются как Outcome.
type Outcome string

const (
	// OutcomeConfirmed слот подтвержден
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeDeclined заявка отклонена, слот снова открыт
	OutcomeDeclined Outcome = "declined"
	// OutcomeAlreadyConfirmed повторный approve для уже подтвержденного слота
	OutcomeAlreadyConfirmed Outcome = "already_confirmed"
	// OutcomeInvalidLink токен не совпадает или уже использован
	OutcomeInvalidLink Outcome = "invalid_link"
	// OutcomeNotFound слот не существует (например, удален администратором)
	OutcomeNotFound Outcome = "not_found"
)

// Request модель запроса по ссылке approve/decline
type Request struct {
	SlotID   string
	Token    string
	Decision Decision
}

// Response модель результата
type Response struct {
	Outcome Outcome
	SlotID  string
	Date    string // пусто, если слот не найден
	Time    string
}
