package rowcodec

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// ===========================================================================
// NUMBER DECODING
// ===========================================================================
//
// NUMBER values are stored in a packed base-100 form of 1 to 21 bytes:
//
//   byte 0       exponent byte; high bit set for positive values
//   bytes 1..n   mantissa digits, one base-100 digit per byte
//
// Positive values store digit+1 per mantissa byte and exponent+65 in the
// low seven bits of byte 0. Negative values store the complement: 101-digit
// per mantissa byte, the bitwise complement of the exponent byte, and a
// trailing 0x66 terminator when the mantissa is shorter than 20 digits.
// The single byte 0x80 is zero.
//
// The decoded value is sign * Σ digit[i] * 100^(exponent-i).
//
// ===========================================================================

// MaxNumberLength is the longest legal NUMBER encoding in bytes.
const MaxNumberLength = 21

const negTerminator = 102

var errBadNumber = errors.New("malformed NUMBER bytes")

var big100 = big.NewInt(100)

// DecodeNumber decodes packed NUMBER bytes into an arbitrary-precision
// decimal. The error is errBadNumber for any malformed encoding; callers
// wrap it into a row-scoped TypeDecodingError.
func DecodeNumber(b []byte) (decimal.Decimal, error) {
	if len(b) == 0 || len(b) > MaxNumberLength {
		return decimal.Decimal{}, errBadNumber
	}
	if b[0] == 0x80 {
		if len(b) != 1 {
			return decimal.Decimal{}, errBadNumber
		}
		return decimal.Zero, nil
	}

	positive := b[0]&0x80 != 0

	var exp int
	var digits []byte
	if positive {
		exp = int(b[0]&0x7f) - 65
		for _, d := range b[1:] {
			if d < 1 || d > 100 {
				return decimal.Decimal{}, errBadNumber
			}
			digits = append(digits, d-1)
		}
	} else {
		exp = int(^b[0]&0x7f) - 65
		mantissa := b[1:]
		if len(mantissa) > 0 && mantissa[len(mantissa)-1] == negTerminator {
			mantissa = mantissa[:len(mantissa)-1]
		} else if len(b) < MaxNumberLength {
			// Short negative forms always carry the terminator.
			return decimal.Decimal{}, errBadNumber
		}
		for _, d := range mantissa {
			if d < 2 || d > 101 {
				return decimal.Decimal{}, errBadNumber
			}
			digits = append(digits, 101-d)
		}
	}
	if len(digits) == 0 {
		return decimal.Decimal{}, errBadNumber
	}

	coef := new(big.Int)
	for _, d := range digits {
		coef.Mul(coef, big100)
		coef.Add(coef, big.NewInt(int64(d)))
	}
	if !positive {
		coef.Neg(coef)
	}

	// Each base-100 digit is two decimal places.
	exp10 := 2 * (exp - (len(digits) - 1))
	return decimal.NewFromBigInt(coef, int32(exp10)), nil
}
