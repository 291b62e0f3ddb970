package create_slot

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-CoachBooking/internal/service/slots/models"
)

var errInvalidDuration = errors.New("duration must be a whole number of minutes")

// CreateSlotRequest HTTP request model.
// Duration приходит из админки и числом, и строкой ("60").
type CreateSlotRequest struct {
	Date     string          `json:"date"`
	Time     string          `json:"time"`
	Duration json.RawMessage `json:"duration"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSlotRequest) ToServiceRequest(authorized bool) (*models.CreateSlotRequest, error) {
	duration, err := parseDuration(r.Duration)
	if err != nil {
		return nil, err
	}
	return &models.CreateSlotRequest{
		Authorized: authorized,
		Date:       r.Date,
		Time:       r.Time,
		Duration:   duration,
	}, nil
}

func parseDuration(raw json.RawMessage) (int, error) {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return 0, errInvalidDuration
	}
	if strings.HasPrefix(value, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, errInvalidDuration
		}
		value = strings.TrimSpace(s)
	}
	minutes, err := strconv.Atoi(value)
	if err != nil {
		return 0, errInvalidDuration
	}
	return minutes, nil
}
