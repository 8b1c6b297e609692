package storagedapp

import (
	"math/big"
	"strings"
)

// maxValueBits is the width of the uint256 parameter of set.
const maxValueBits = 256

// ParseValue parses raw user input as a base-10 unsigned 256-bit integer.
// Surrounding whitespace is ignored.
func ParseValue(raw string) (*big.Int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, &InputError{Input: raw, Err: ErrEmptyInput}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &InputError{Input: raw, Err: ErrInvalidNumber}
	}
	if v.Sign() < 0 {
		return nil, &InputError{Input: raw, Err: ErrNegativeValue}
	}
	if v.BitLen() > maxValueBits {
		return nil, &InputError{Input: raw, Err: ErrValueOverflow}
	}
	return v, nil
}
