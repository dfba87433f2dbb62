package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatPrice formats a slot price with thousands separators,
// e.g. 1200.5 -> "1,200.50".
func FormatPrice(amount float64) string {
	rounded := math.Round(amount*100) / 100
	whole := int64(rounded)
	frac := int64(math.Round((rounded - float64(whole)) * 100))

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("%s.%02d", strings.Join(groups, ","), frac)
}
