package form

const (
	mobilePrefix = "09"
	mobileDigits = 11
)

// NormalizePhone coerces user input toward the local 11-digit mobile format
// as the user types. Non-digit characters are stripped, the leading digits
// are rewritten to the 09 prefix, and the result is truncated to 11 digits.
// The function is idempotent: applying it to its own output is a no-op.
func NormalizePhone(input string) string {
	digits := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		if c := input[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 0 {
		return ""
	}

	d := string(digits)
	switch {
	case len(d) >= 2 && d[:2] == mobilePrefix:
		// already prefixed
	case d[0] == '9':
		d = "0" + d
	case d[0] == '0':
		d = mobilePrefix + d[1:]
	default:
		d = mobilePrefix + d
	}

	if len(d) > mobileDigits {
		d = d[:mobileDigits]
	}
	return d
}

// ValidMobile reports whether v is a complete normalized mobile number.
func ValidMobile(v string) bool {
	if len(v) != mobileDigits || v[:2] != mobilePrefix {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
