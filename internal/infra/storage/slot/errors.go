package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrConflict возвращается, когда условие условной записи не выполнено (слот изменился)
	ErrConflict = errors.New("slot.repository: conditional write failed")

	// ErrDecodeRecord возвращается, когда сохранённую запись не удалось разобрать
	ErrDecodeRecord = errors.New("slot.repository: failed to decode record")

	// ErrEncodeRecord возвращается, когда слот не удалось сериализовать
	ErrEncodeRecord = errors.New("slot.repository: failed to encode record")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения запроса к хранилищу
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
