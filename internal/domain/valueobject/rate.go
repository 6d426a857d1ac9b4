package valueobject

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// FlexibleFloat принимает в JSON как число, так и числовую строку
// ("120", "120.5"). Формы админки отправляют значение полей ввода строкой.
type FlexibleFloat struct {
	Value float64
	Set   bool
}

func (f *FlexibleFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = FlexibleFloat{}
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		return f.set(num)
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return apperror.Validation("ставка должна быть числом")
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return apperror.Validation("ставка должна быть числом")
	}
	return f.set(num)
}

// set принимает только конечные числа: NaN и Inf не сериализуются в JSON.
func (f *FlexibleFloat) set(num float64) error {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return apperror.Validation("ставка должна быть числом")
	}
	*f = FlexibleFloat{Value: num, Set: true}
	return nil
}

func (f FlexibleFloat) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
