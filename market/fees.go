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

package market

import (
	"context"

	"github.com/blinklabs-io/gomarket/abi"
	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/unit"
)

// PlatformFeeBps reads the platform fee from the marketplace contract. The
// fee is never hard-coded here so a contract-side change requires no client
// update.
func (m *Market) PlatformFeeBps(ctx context.Context) (int64, error) {
	data, err := abi.EncodeCall("platformFeeBps()")
	if err != nil {
		return 0, err
	}
	ret, err := m.node.CallContract(ctx, ledger.CallMsg{To: m.contract, Data: data})
	if err != nil {
		return 0, errors.Wrap(err, "read platform fee")
	}
	bps, err := abi.DecodeUint256(ret, 0)
	if err != nil {
		return 0, err
	}
	if !bps.IsInt64() || bps.Int64() > unit.BasisPointDenominator {
		return 0, errors.ErrInvalidInput.Newf(
			"ledger reported platform fee %s bps out of range",
			bps,
		)
	}
	return bps.Int64(), nil
}

// CalculatePlatformFee returns the platform fee on a price, as a decimal
// display-unit string, using the fee the ledger currently reports
func (m *Market) CalculatePlatformFee(
	ctx context.Context,
	priceDecimal string,
) (string, error) {
	price, err := unit.ToSmallestUnit(priceDecimal)
	if err != nil {
		return "", err
	}
	bps, err := m.PlatformFeeBps(ctx)
	if err != nil {
		return "", err
	}
	return unit.FromSmallestUnit(unit.ApplyBasisPoints(price, bps)), nil
}
