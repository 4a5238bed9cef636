package domain

import (
	"fmt"
	"math"
)

// MaxDonationPoint caps the point of a single donation.
const MaxDonationPoint int64 = 100_000_000

// CreditTotals returns the store aggregates after adding point to both.
// A non-positive point or a total that would leave int64 range is an
// ErrConstraintViolation; the caller must not write anything in that case.
func CreditTotals(allDonation, usableDonation, point int64) (int64, int64, error) {
	if point <= 0 {
		return 0, 0, fmt.Errorf("%w: donation point must be positive, got %d", ErrConstraintViolation, point)
	}
	if allDonation > math.MaxInt64-point || usableDonation > math.MaxInt64-point {
		return 0, 0, fmt.Errorf("%w: donation of %d would overflow the store totals", ErrConstraintViolation, point)
	}
	return allDonation + point, usableDonation + point, nil
}
