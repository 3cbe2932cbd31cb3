package codegen

import (
	"fmt"
	"time"
)

// FiscalYearToken returns the 4-character short code of the Indian
// financial year (April 1 – March 31) containing t. A date in February 2025
// belongs to the year starting April 2024 and yields "2425".
func FiscalYearToken(t time.Time) string {
	year := t.Year()
	if int(t.Month()) < 4 {
		year--
	}
	from := year % 100
	to := (from + 1) % 100
	return fmt.Sprintf("%02d%02d", from, to)
}
