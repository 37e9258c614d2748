// Package presentation holds the pure display rules for magazine content:
// roman-numeral issue labels, URL slugs and article previews.
package presentation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for values the derivations cannot represent.
var ErrInvalidInput = errors.New("invalid input")

const (
	minRoman = 1
	maxRoman = 3999
)

var romanTable = []struct {
	value   int
	numeral string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"},
	{1, "I"},
}

// ToRoman renders n (1-3999) as a roman numeral.
func ToRoman(n int) (string, error) {
	if n < minRoman || n > maxRoman {
		return "", fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidInput, n, minRoman, maxRoman)
	}

	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.numeral)
			n -= r.value
		}
	}
	return b.String(), nil
}

// FromRoman parses a canonical roman numeral. Non-canonical spellings such
// as "IIII" or "VX" are rejected.
func FromRoman(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty numeral", ErrInvalidInput)
	}

	rest := strings.ToUpper(s)
	n := 0
	for _, r := range romanTable {
		for strings.HasPrefix(rest, r.numeral) {
			n += r.value
			rest = rest[len(r.numeral):]
		}
	}
	if rest != "" || n > maxRoman {
		return 0, fmt.Errorf("%w: %q is not a roman numeral", ErrInvalidInput, s)
	}

	// The greedy parse accepts some non-canonical forms; reject anything
	// that does not render back to itself.
	if canonical, _ := ToRoman(n); canonical != strings.ToUpper(s) {
		return 0, fmt.Errorf("%w: %q is not canonical (want %q)", ErrInvalidInput, s, canonical)
	}
	return n, nil
}

var (
	hundred   = decimal.NewFromInt(100)
	maxVolume = decimal.NewFromInt(maxRoman)
)

// ParseIssueNumber parses a VOL.ISS string such as "3.07".
func ParseIssueNumber(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: issue number %q: %v", ErrInvalidInput, s, err)
	}
	if _, _, err := SplitIssueNumber(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// SplitIssueNumber splits VOL.ISS into its volume and issue parts. The
// issue part is the two fractional digits, so 3.07 is (3, 7) and 3.1 is (3, 10).
// Both parts must render as roman numerals, so the volume is at most 3999.
func SplitIssueNumber(d decimal.Decimal) (volume, issue int, err error) {
	if !d.IsPositive() {
		return 0, 0, fmt.Errorf("%w: issue number %s must be positive", ErrInvalidInput, d)
	}

	vol := d.Truncate(0)
	frac := d.Sub(vol).Mul(hundred)
	if !frac.Equal(frac.Truncate(0)) {
		return 0, 0, fmt.Errorf("%w: issue number %s has more than two decimal places", ErrInvalidInput, d)
	}

	if vol.GreaterThan(maxVolume) {
		return 0, 0, fmt.Errorf("%w: issue number %s has a volume above %d", ErrInvalidInput, d, maxRoman)
	}

	volume = int(vol.IntPart())
	issue = int(frac.IntPart())
	if volume < minRoman || issue < minRoman {
		return 0, 0, fmt.Errorf("%w: issue number %s needs a volume and an issue of at least 1", ErrInvalidInput, d)
	}
	return volume, issue, nil
}

// Label is the roman-numeral rendering of an issue number.
type Label struct {
	Volume string `json:"volume"`
	Issue  string `json:"issue"`
}

func (l Label) String() string {
	return "Vol. " + l.Volume + ", No. " + l.Issue
}

// IssueLabel renders both parts of a VOL.ISS issue number as roman numerals.
func IssueLabel(d decimal.Decimal) (Label, error) {
	volume, issue, err := SplitIssueNumber(d)
	if err != nil {
		return Label{}, err
	}

	vol, err := ToRoman(volume)
	if err != nil {
		return Label{}, fmt.Errorf("volume: %w", err)
	}
	iss, err := ToRoman(issue)
	if err != nil {
		return Label{}, fmt.Errorf("issue: %w", err)
	}
	return Label{Volume: vol, Issue: iss}, nil
}
