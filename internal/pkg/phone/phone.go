package phone

import "strings"

// The payroll backend is inconsistent about phone formats: some endpoints
// want the 88 country code, some want the local number without it, and
// the settings endpoint insists on the leading zero being present. Every
// caller goes through one of the named modes below so the convention is
// spelled out per endpoint instead of re-derived inline.

// Normalize strips everything except digits.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WithCountryCode returns the number with the Bangladesh country code:
// "01712345678" -> "8801712345678", "1712345678" -> "881712345678".
// Numbers already starting with 88 are returned as-is.
func WithCountryCode(raw string) string {
	p := Normalize(raw)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "88") {
		return p
	}
	return "88" + p
}

// WithoutCountryCode strips the 88 country code, keeping the local
// number's leading zero: "8801712345678" -> "01712345678",
// "01712345678" -> "01712345678". Only the country code comes off;
// numbers already in local form pass through untouched.
func WithoutCountryCode(raw string) string {
	p := Normalize(raw)
	if strings.HasPrefix(p, "880") {
		p = strings.TrimPrefix(p, "88")
	}
	return p
}

// WithLeadingZero returns the local format with its leading zero:
// "8801712345678" -> "01712345678", "1712345678" -> "01712345678".
func WithLeadingZero(raw string) string {
	p := Normalize(raw)
	if strings.HasPrefix(p, "880") {
		return "0" + p[3:]
	}
	if strings.HasPrefix(p, "88") {
		p = p[2:]
	}
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "0") {
		return p
	}
	return "0" + p
}

// IsValid reports whether the number looks like a Bangladeshi mobile
// number after normalization (11 digits local, 13 with country code).
func IsValid(raw string) bool {
	p := Normalize(raw)
	switch len(p) {
	case 11:
		return strings.HasPrefix(p, "01")
	case 13:
		return strings.HasPrefix(p, "8801")
	case 10:
		return strings.HasPrefix(p, "1")
	}
	return false
}
