package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// RandomHex returns n random bytes encoded as 2n lowercase hex characters.
func RandomHex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RandomDigits returns a zero-padded string of n uniformly random decimal digits.
func RandomDigits(n int) (string, error) {
	if n <= 0 || n > 18 {
		return "", fmt.Errorf("digit count must be within 1..18")
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("read random number: %w", err)
	}
	return fmt.Sprintf("%0*d", n, v.Int64()), nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
