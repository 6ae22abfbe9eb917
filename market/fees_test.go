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

package market_test

import (
	"context"
	"testing"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
)

func TestPlatformFeeBps(t *testing.T) {
	mkt, _, mockNode := newTestMarket(t)
	mockNode.CallHandler = func(ctx context.Context, msg ledger.CallMsg) ([]byte, error) {
		return word(250), nil
	}
	bps, err := mkt.PlatformFeeBps(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if bps != 250 {
		t.Fatalf("did not get expected fee: got %d, wanted 250", bps)
	}
}

func TestPlatformFeeBpsOutOfRange(t *testing.T) {
	mkt, _, mockNode := newTestMarket(t)
	mockNode.CallHandler = func(ctx context.Context, msg ledger.CallMsg) ([]byte, error) {
		return word(20000), nil
	}
	_, err := mkt.PlatformFeeBps(context.Background())
	if !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}

// A 2.5% fee on 0.1 is exactly 0.0025, computed without floating point
func TestCalculatePlatformFee(t *testing.T) {
	mkt, _, mockNode := newTestMarket(t)
	mockNode.CallHandler = func(ctx context.Context, msg ledger.CallMsg) ([]byte, error) {
		return word(250), nil
	}
	fee, err := mkt.CalculatePlatformFee(context.Background(), "0.1")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if fee != "0.0025" {
		t.Fatalf("did not get expected fee: got %s, wanted 0.0025", fee)
	}
}

func TestCalculatePlatformFeeInvalidPrice(t *testing.T) {
	mkt, _, _ := newTestMarket(t)
	_, err := mkt.CalculatePlatformFee(context.Background(), "oops")
	if !errors.ErrInvalidAmount.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}
