package utils

// MaskSecret hides all but a short prefix of a credential so it can be
// logged without leaking the full value.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "*****"
	}
	return s[:4] + "*****"
}
