package codegen

import (
	"fmt"
	"regexp"
	"strconv"
)

var trailingSeq = regexp.MustCompile(`(\d{4})$`)

// NextSequence derives the successor of the sequence embedded in the most
// recently issued code for a prefix. When lastCode is empty, or does not
// end in exactly four digits, the sequence starts at 1.
func NextSequence(lastCode string) int {
	m := trailingSeq.FindStringSubmatch(lastCode)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n + 1
}

// FormatCode appends the zero-padded sequence to the prefix.
func FormatCode(prefix string, seq int) string {
	return fmt.Sprintf("%s/%04d", prefix, seq)
}
