package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

var suffixSpace = big.NewInt(1_000_000)

// newOrderNumber returns "OD" + local timestamp to the second + six random
// digits, e.g. OD20260501120000042917.
func newOrderNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, suffixSpace)
	if err != nil {
		return "", fmt.Errorf("order number suffix: %w", err)
	}
	return fmt.Sprintf("OD%s%06d", now.Format("20060102150405"), n.Int64()), nil
}
