package level

import (
	"strconv"
	"strings"
	"unicode"
)

// Canonical level tags, in curriculum order.
const (
	HSK1    = "1"
	HSK2    = "2"
	HSK3    = "3"
	HSK4    = "4"
	HSK5    = "5"
	HSK6    = "6"
	HSK7to9 = "7-9"
)

// Default is the tag a label falls back to when it cannot be interpreted.
const Default = HSK1

var all = []string{HSK1, HSK2, HSK3, HSK4, HSK5, HSK6, HSK7to9}

// Status describes how a raw label was mapped to its tag.
type Status int

const (
	// Exact means the raw label already was a canonical tag.
	Exact Status = iota
	// Normalized means the label was recognized under another spelling.
	Normalized
	// Defaulted means the label could not be interpreted and fell back to Default.
	Defaulted
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case Exact:
		return "exact"
	case Normalized:
		return "normalized"
	case Defaulted:
		return "defaulted"
	default:
		return "unknown"
	}
}

// Result is the outcome of parsing a raw level label. Callers that want
// strict handling reject Defaulted results; lenient callers just use Tag.
type Result struct {
	Raw    string
	Tag    string
	Status Status
}

// OK reports whether the label was recognized.
func (r Result) OK() bool {
	return r.Status != Defaulted
}

// All returns the canonical tags in curriculum order.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// IsCanonical reports whether tag is one of the seven canonical tags.
func IsCanonical(tag string) bool {
	for _, t := range all {
		if t == tag {
			return true
		}
	}
	return false
}

// Canonical maps a raw label to its canonical tag. It never fails: labels that
// cannot be interpreted map to Default. Canonical(Canonical(x)) == Canonical(x).
func Canonical(raw string) string {
	return Parse(raw).Tag
}

// FromInt maps a numeric level to its canonical tag.
func FromInt(n int) Result {
	raw := strconv.Itoa(n)
	switch {
	case n >= 7:
		return Result{Raw: raw, Tag: HSK7to9, Status: Normalized}
	case n >= 1:
		return Result{Raw: raw, Tag: raw, Status: Exact}
	default:
		return Result{Raw: raw, Tag: Default, Status: Defaulted}
	}
}

// Parse maps a raw label to its canonical tag and reports how it got there.
//
// Any spelling of the combined band ("7-9", "hsk7–9", "HSK 7—9") maps to
// "7-9". Otherwise the non-numeric prefix is stripped and the leading digits
// are parsed: values of 7 and above map to "7-9", 1 through 6 map to
// themselves, anything else maps to Default.
func Parse(raw string) Result {
	s := strings.TrimSpace(raw)
	if IsCanonical(s) {
		return Result{Raw: raw, Tag: s, Status: Exact}
	}

	if isCombinedBand(s) {
		return Result{Raw: raw, Tag: HSK7to9, Status: Normalized}
	}

	digits := leadingDigits(stripNonNumericPrefix(s))
	if digits == "" {
		return Result{Raw: raw, Tag: Default, Status: Defaulted}
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		// Only overflow gets here; such a value is still "7 or above".
		return Result{Raw: raw, Tag: HSK7to9, Status: Normalized}
	}

	r := FromInt(n)
	r.Raw = raw
	if r.Status == Exact {
		r.Status = Normalized
	}
	return r
}

// isCombinedBand matches "7-9" written with a hyphen, en dash or em dash,
// optionally surrounded by spaces, anywhere in the label.
func isCombinedBand(s string) bool {
	compact := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case r == '–' || r == '—' || r == '‐' || r == '−':
			return '-'
		default:
			return r
		}
	}, s)
	return strings.Contains(compact, "7-9")
}

func stripNonNumericPrefix(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	})
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
