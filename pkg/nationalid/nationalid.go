// Package nationalid validates Iranian national identification numbers
// (code melli) using the standard weighted checksum.
package nationalid

// IsValid reports whether code is a well-formed 10-digit national id.
// Positions 0..8 are weighted by (10 - position); the 10th digit must
// equal the checksum remainder (r if r < 2, otherwise 11 - r).
func IsValid(code string) bool {
	if len(code) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * (10 - i)
	}
	check := code[9]
	if check < '0' || check > '9' {
		return false
	}
	remainder := sum % 11
	if remainder < 2 {
		return int(check-'0') == remainder
	}
	return int(check-'0') == 11-remainder
}
