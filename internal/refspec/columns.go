package refspec

import (
	"fmt"
	"strings"
)

// MaxColumn is the highest column number a worksheet can have (XFD).
const MaxColumn = 16384

// ColumnNumber converts column letters to a 1-origin column number
// (A=1, Z=26, AA=27). Lowercase letters are accepted.
func ColumnNumber(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("refspec: empty column letters")
	}
	n := 0
	for _, c := range strings.ToUpper(letters) {
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("refspec: invalid column letters %q", letters)
		}
		n = n*26 + int(c-'A') + 1
	}
	return n, nil
}

// ColumnLetters converts a 1-origin column number to column letters
// (1=A, 26=Z, 27=AA). It returns "" for n < 1.
func ColumnLetters(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
