package valueobject

import (
	"sort"
	"strings"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// CountyCodes - коды жудецев Румынии, которыми герой описывает зону работы.
var CountyCodes = []string{
	"B", "AB", "AR", "AG", "BC", "BH", "BN", "BT", "BR", "BV", "BZ", "CL", "CS", "CJ",
	"CT", "CV", "DB", "DJ", "GL", "GR", "GJ", "HR", "HD", "IL", "IS", "IF", "MM", "MH",
	"MS", "NT", "OT", "PH", "SM", "SJ", "SB", "SV", "TR", "TM", "TL", "VL", "VS", "VN",
}

var countySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(CountyCodes))
	for _, c := range CountyCodes {
		m[c] = struct{}{}
	}
	return m
}()

func IsCounty(code string) bool {
	_, ok := countySet[code]
	return ok
}

// NormalizeCounties приводит коды к верхнему регистру, убирает дубли
// и сортирует. Неизвестный код - ошибка валидации.
func NormalizeCounties(codes []string) ([]string, error) {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, raw := range codes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		if !IsCounty(code) {
			return nil, apperror.Validation("неизвестный код жудеца: " + code)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out, nil
}

// CountiesOverlap - есть ли хотя бы один общий код.
func CountiesOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, c := range a {
		set[strings.ToUpper(c)] = struct{}{}
	}
	for _, c := range b {
		if _, ok := set[strings.ToUpper(c)]; ok {
			return true
		}
	}
	return false
}
