package internal

import (
	"fmt"
	"math"
)

// floatFilter applies fn to float32/float64 values only; other values pass through.
func floatFilter(fn func(float64) any) FilterFunc {
	return func(v any) any {
		switch f := v.(type) {
		case float64:
			return fn(f)
		case float32:
			return fn(float64(f))
		default:
			return v
		}
	}
}

func registerNumericFilters(filters map[string]FilterFunc) {
	filters[FilterNameAbs] = floatFilter(func(f float64) any { return math.Abs(f) })
	filters[FilterNameRound] = floatFilter(func(f float64) any { return int64(math.Round(f)) })
	filters[FilterNameCeil] = floatFilter(func(f float64) any { return math.Ceil(f) })
	filters[FilterNameFloor] = floatFilter(func(f float64) any { return math.Floor(f) })
	filters[FilterNameToFixed] = floatFilter(func(f float64) any { return fmt.Sprintf(ToFixedFormat, f) })
}
