// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package unit converts between the ledger's smallest integer unit and the
// human decimal display unit, and provides the basis-point arithmetic used
// for platform fees and creator royalties.
//
// All arithmetic uses math/big integers. Floating point is never used, so
// amounts round-trip losslessly.
package unit

import (
	"math/big"
	"strings"

	"github.com/blinklabs-io/gomarket/errors"
)

const (
	// Decimals is the number of implied decimal places in the display unit
	Decimals = 18

	// BasisPointDenominator is the divisor for basis-point math
	// (10000 bps = 100%)
	BasisPointDenominator = 10000

	// DefaultRoyaltyBps is the royalty applied when a creator does not
	// specify one (250 bps = 2.5%)
	DefaultRoyaltyBps = 250
)

// unitScale is 10^Decimals
var unitScale = new(big.Int).Exp(
	big.NewInt(10),
	big.NewInt(Decimals),
	nil,
)

// ToSmallestUnit parses a decimal string in the display unit and returns the
// exact integer count of smallest units. It returns ErrInvalidAmount for
// non-numeric input, for signed input (prices, bids, and fees are never
// negative), or for more fractional digits than the unit supports.
func ToSmallestUnit(amount string) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, errors.ErrInvalidAmount.New("empty amount")
	}
	if s[0] == '+' || s[0] == '-' {
		return nil, errors.ErrInvalidAmount.Newf("signed amount %q", amount)
	}
	whole, frac := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole, frac = s[:idx], s[idx+1:]
	}
	if whole == "" && frac == "" {
		return nil, errors.ErrInvalidAmount.Newf("malformed amount %q", amount)
	}
	if len(frac) > Decimals {
		return nil, errors.ErrInvalidAmount.Newf(
			"amount %q has more than %d fractional digits",
			amount,
			Decimals,
		)
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return nil, errors.ErrInvalidAmount.Newf("malformed amount %q", amount)
		}
	}
	// Scale the fractional part up to the full number of decimal places and
	// parse the combined digits as a single integer
	digits := whole + frac + strings.Repeat("0", Decimals-len(frac))
	ret, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.ErrInvalidAmount.Newf("malformed amount %q", amount)
	}
	return ret, nil
}

// MustToSmallestUnit is ToSmallestUnit but panics on error. It's useful for
// static amounts in tests and tooling.
func MustToSmallestUnit(amount string) *big.Int {
	ret, err := ToSmallestUnit(amount)
	if err != nil {
		panic(err)
	}
	return ret
}

// FromSmallestUnit returns the canonical decimal display-unit string for an
// integer count of smallest units. The result has no trailing fractional
// zeros and is always lossless.
func FromSmallestUnit(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	abs := new(big.Int).Abs(amount)
	whole, frac := new(big.Int).QuoRem(abs, unitScale, new(big.Int))
	ret := whole.String()
	if frac.Sign() != 0 {
		fracStr := frac.String()
		// Left-pad to the full decimal width before trimming trailing zeros
		fracStr = strings.Repeat("0", Decimals-len(fracStr)) + fracStr
		fracStr = strings.TrimRight(fracStr, "0")
		ret = ret + "." + fracStr
	}
	if amount.Sign() < 0 {
		ret = "-" + ret
	}
	return ret
}

// ApplyBasisPoints returns floor(amount * bps / 10000). It is used for both
// the platform fee and creator royalties. Bounds on bps are the caller's
// responsibility.
func ApplyBasisPoints(amount *big.Int, bps int64) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	ret := new(big.Int).Mul(amount, big.NewInt(bps))
	return ret.Div(ret, big.NewInt(BasisPointDenominator))
}
