// Package textnorm normalizes the free-text fragments users type into
// the bot: dates, times, amounts and accented Vietnamese notes.
package textnorm

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeDate pads a "D/M" date into "DD/MM". Anything that is not
// two slash-separated parts is returned trimmed, unchanged.
func NormalizeDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return strings.TrimSpace(s)
	}
	return zfill2(parts[0]) + "/" + zfill2(parts[1])
}

// NormalizeTime expands shorthand times into "HH:MM:SS".
//
//	"10h"      -> "10:00:00"
//	"8h5"      -> "08:05:00"
//	"10h30s45" -> "10:30:45"
//	"10:05"    -> "10:05:00"
//	"10:05:30" -> "10:05:30"
func NormalizeTime(s string) string {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")

	if strings.Contains(s, "h") {
		hParts := strings.SplitN(s, "h", 2)
		hour := "00"
		if hParts[0] != "" {
			hour = zfill2(hParts[0])
		}
		minute, second := "00", "00"
		if len(hParts) > 1 && hParts[1] != "" {
			remaining := hParts[1]
			if strings.Contains(remaining, "s") {
				sParts := strings.SplitN(remaining, "s", 2)
				if sParts[0] != "" {
					minute = zfill2(sParts[0])
				}
				if len(sParts) > 1 && sParts[1] != "" {
					second = zfill2(sParts[1])
				}
			} else {
				minute = zfill2(remaining)
			}
		}
		return hour + ":" + minute + ":" + second
	}

	if strings.Count(s, ":") == 1 {
		return s + ":00"
	}
	return s
}

// NormalizeText folds a note for matching: NBSP to space, accents
// stripped via NFD, đ mapped to d, whitespace collapsed, lowercased.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", " ")
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'đ':
			b.WriteRune('d')
		case 'Đ':
			b.WriteRune('D')
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// HasKeyword reports whether the note matches any keyword.
// Multi-word keywords match as substrings; single-word keywords must
// equal a whole whitespace token, so "an" does not match "bantam".
func HasKeyword(note string, keywords []string) bool {
	note = strings.ToLower(note)
	tokens := strings.Fields(note)
	for _, k := range keywords {
		k = strings.ToLower(k)
		if strings.Contains(k, " ") {
			if strings.Contains(note, k) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if tok == k {
				return true
			}
		}
	}
	return false
}

// SafeInt extracts the digits from a cell value and parses them.
// "1,200,000 VND" becomes 1200000; unparseable input becomes 0.
func SafeInt(s string) int64 {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func zfill2(s string) string {
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}
