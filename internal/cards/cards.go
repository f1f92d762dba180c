// Package cards synthesizes checksum-valid test card numbers. A generated
// numeral satisfies the mod-10 format check and nothing more; it does not
// correspond to any issued account.
package cards

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// ErrInvalidPrefix is returned when the requested prefix is empty, contains
// a non-digit, or is longer than the 15 positions available before the
// check digit.
var ErrInvalidPrefix = errors.New("prefix must be 1-15 digits")

// MaxBatch caps the number of records produced by a single Generate call.
const MaxBatch = 20

// Record is one synthesized card: a 16-digit numeral, an expiry pair and a
// 3-digit verification code.
type Record struct {
	Number string
	Month  int
	Year   int
	CVV    string
}

func (r Record) String() string {
	return fmt.Sprintf("%s | %02d/%02d | %s", r.Number, r.Month, r.Year, r.CVV)
}

// Generate produces count independent records whose numerals start with
// prefix. Count is clamped to [1, MaxBatch]. Records are not guaranteed
// unique within a batch.
func Generate(prefix string, count int) ([]Record, error) {
	if !isDigits(prefix) || len(prefix) > 15 {
		return nil, ErrInvalidPrefix
	}
	if count < 1 {
		count = 1
	}
	if count > MaxBatch {
		count = MaxBatch
	}
	yearBase := time.Now().Year() % 100
	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		var b strings.Builder
		b.WriteString(prefix)
		for b.Len() < 15 {
			b.WriteByte(byte('0' + rand.IntN(10)))
		}
		candidate := b.String()
		records = append(records, Record{
			Number: candidate + string(byte('0'+checkDigit(candidate))),
			Month:  1 + rand.IntN(12),
			Year:   yearBase + 1 + rand.IntN(5),
			CVV:    fmt.Sprintf("%03d", 100+rand.IntN(900)),
		})
	}
	return records, nil
}

// Valid reports whether a digit string satisfies the mod-10 weighted
// checksum.
func Valid(numeral string) bool {
	if !isDigits(numeral) {
		return false
	}
	return luhnSum(numeral)%10 == 0
}

// checkDigit computes the digit that, appended to candidate, makes the
// whole numeral pass the mod-10 check.
func checkDigit(candidate string) int {
	return (10 - luhnSum(candidate+"0")%10) % 10
}

// luhnSum doubles every second digit counting from the rightmost position,
// folding results >= 10 back into a single addition, and sums everything.
func luhnSum(numeral string) int {
	sum := 0
	double := false
	for i := len(numeral) - 1; i >= 0; i-- {
		d := int(numeral[i] - '0')
		if double {
			d *= 2
			if d >= 10 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
