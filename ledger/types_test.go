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

package ledger_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/blinklabs-io/gomarket/ledger"
)

func TestAddressChecksum(t *testing.T) {
	// Checksummed forms survive a parse/format round trip regardless of the
	// input casing
	testDefs := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, testDef := range testDefs {
		for _, input := range []string{
			testDef,
			"0x" + lower(testDef[2:]),
			"0x" + upper(testDef[2:]),
		} {
			addr, err := ledger.ParseAddress(input)
			if err != nil {
				t.Fatalf("unexpected error parsing %q: %s", input, err)
			}
			if addr.String() != testDef {
				t.Fatalf(
					"did not get expected checksummed address: got %s, wanted %s",
					addr.String(),
					testDef,
				)
			}
		}
	}
}

func lower(s string) string {
	ret := []byte(s)
	for i, c := range ret {
		if c >= 'A' && c <= 'F' {
			ret[i] = c + ('a' - 'A')
		}
	}
	return string(ret)
}

func upper(s string) string {
	ret := []byte(s)
	for i, c := range ret {
		if c >= 'a' && c <= 'f' {
			ret[i] = c - ('a' - 'A')
		}
	}
	return string(ret)
}

func TestParseAddressInvalid(t *testing.T) {
	testDefs := []string{
		"",
		"0x",
		"0x1234",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe",
		"0xzzzeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	}
	for _, testDef := range testDefs {
		if _, err := ledger.ParseAddress(testDef); err == nil {
			t.Fatalf("did not get expected error parsing %q", testDef)
		}
	}
}

func TestQuantityJSON(t *testing.T) {
	testDefs := []struct {
		encoded string
		value   int64
	}{
		{encoded: `"0x0"`, value: 0},
		{encoded: `"0x1"`, value: 1},
		{encoded: `"0x4d2"`, value: 1234},
	}
	for _, testDef := range testDefs {
		var q ledger.Quantity
		if err := json.Unmarshal([]byte(testDef.encoded), &q); err != nil {
			t.Fatalf("unexpected error decoding %s: %s", testDef.encoded, err)
		}
		if q.Int().Int64() != testDef.value {
			t.Fatalf(
				"did not get expected value decoding %s: got %s, wanted %d",
				testDef.encoded,
				q.Int().String(),
				testDef.value,
			)
		}
		encoded, err := json.Marshal(&q)
		if err != nil {
			t.Fatalf("unexpected error encoding: %s", err)
		}
		if string(encoded) != testDef.encoded {
			t.Fatalf(
				"did not get expected encoding: got %s, wanted %s",
				encoded,
				testDef.encoded,
			)
		}
	}
}

func TestQuantityCopies(t *testing.T) {
	orig := big.NewInt(100)
	q := ledger.NewQuantity(orig)
	orig.SetInt64(200)
	if q.Uint64() != 100 {
		t.Fatalf("quantity shares storage with its input")
	}
	out := q.Int()
	out.SetInt64(300)
	if q.Uint64() != 100 {
		t.Fatalf("quantity shares storage with its output")
	}
}

func TestReceiptSucceeded(t *testing.T) {
	receipt := &ledger.Receipt{}
	if receipt.Succeeded() {
		t.Fatalf("receipt with no status reported success")
	}
	receipt.Status = ledger.NewQuantity(big.NewInt(ledger.ReceiptStatusFailed))
	if receipt.Succeeded() {
		t.Fatalf("failed receipt reported success")
	}
	receipt.Status = ledger.NewQuantity(big.NewInt(ledger.ReceiptStatusSucceeded))
	if !receipt.Succeeded() {
		t.Fatalf("successful receipt reported failure")
	}
}
