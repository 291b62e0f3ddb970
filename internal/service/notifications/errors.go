package notifications

import "errors"

var (
	// ErrUnknownKind возвращается для уведомления неизвестного типа
	ErrUnknownKind = errors.New("notifications: unknown notification kind")

	// ErrNoRecipient возвращается, когда адрес получателя не задан
	ErrNoRecipient = errors.New("notifications: no recipient")

	// ErrRender возвращается при ошибке рендеринга шаблона письма
	ErrRender = errors.New("notifications: failed to render message")

	// ErrDeliver возвращается при ошибке отправки письма
	ErrDeliver = errors.New("notifications: failed to deliver message")

	// ErrEnqueue возвращается при ошибке постановки задачи в очередь
	ErrEnqueue = errors.New("notifications: failed to enqueue task")

	// ErrInvalidPayload возвращается, когда задачу из очереди невозможно разобрать
	ErrInvalidPayload = errors.New("notifications: invalid task payload")
)
