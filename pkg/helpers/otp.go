package helpers

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// GenResetCode generates a secure random 6-digit reset code in the range
// 100000-999999 inclusive. The draw is uniform; the leading digit is
// never zero, so the numeric string is always exactly six characters.
func GenResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
