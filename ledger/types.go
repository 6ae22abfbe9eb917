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

// Package ledger provides the types and node abstraction for talking to an
// Ethereum-compatible ledger over JSON-RPC. It defines the minimal read and
// estimate surface the rest of the library needs; all mutating submissions go
// through a signer.
package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/blinklabs-io/gomarket/errors"
	"golang.org/x/crypto/sha3"
)

const (
	// AddressLength is the length of a ledger account address in bytes
	AddressLength = 20
	// HashLength is the length of a transaction or block hash in bytes
	HashLength = 32
)

// Address represents a 20-byte account or contract address
type Address [AddressLength]byte

// ParseAddress decodes a 0x-prefixed hex address string
func ParseAddress(s string) (Address, error) {
	var a Address
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != AddressLength*2 {
		return a, errors.ErrInvalidInput.Newf("invalid address length: %q", s)
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return a, errors.ErrInvalidInput.Newf("invalid address %q: %s", s, err)
	}
	copy(a[:], decoded)
	return a, nil
}

// MustParseAddress is ParseAddress but panics on error. It's useful for
// static addresses such as the network registry entries.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the EIP-55 checksummed hex form of the address
func (a Address) String() string {
	lower := hex.EncodeToString(a[:])
	keccak := sha3.NewLegacyKeccak256()
	keccak.Write([]byte(lower))
	hash := keccak.Sum(nil)
	ret := []byte(lower)
	for i, c := range ret {
		if c >= 'a' && c <= 'f' {
			// Uppercase when the corresponding hash nibble is >= 8
			nibble := hash[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				ret[i] = c - ('a' - 'A')
			}
		}
	}
	return "0x" + string(ret)
}

// IsZero returns whether the address is the all-zeros address
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// Hash represents a 32-byte transaction, block, or event topic hash
type Hash [HashLength]byte

// ParseHash decodes a 0x-prefixed hex hash string
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != HashLength*2 {
		return h, errors.ErrInvalidInput.Newf("invalid hash length: %q", s)
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return h, errors.ErrInvalidInput.Newf("invalid hash %q: %s", s, err)
	}
	copy(h[:], decoded)
	return h, nil
}

// String returns the 0x-prefixed hex form of the hash
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}

// Quantity wraps a big integer with the 0x-hex JSON encoding used by the
// JSON-RPC wire format
type Quantity struct {
	value big.Int
}

// NewQuantity returns a Quantity holding a copy of the provided value
func NewQuantity(value *big.Int) *Quantity {
	q := &Quantity{}
	if value != nil {
		q.value.Set(value)
	}
	return q
}

// Int returns a copy of the underlying integer value
func (q *Quantity) Int() *big.Int {
	return new(big.Int).Set(&q.value)
}

// Uint64 returns the value as a uint64. The caller is responsible for making
// sure the value fits.
func (q *Quantity) Uint64() uint64 {
	return q.value.Uint64()
}

func (q *Quantity) String() string {
	return "0x" + q.value.Text(16)
}

func (q *Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if raw == "" {
		raw = "0"
	}
	if _, ok := q.value.SetString(raw, 16); !ok {
		return fmt.Errorf("invalid quantity: %q", s)
	}
	return nil
}

// Bytes is a byte slice with the 0x-hex JSON encoding used by the JSON-RPC
// wire format
type Bytes []byte

func (b Bytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("invalid hex data %q: %s", s, err)
	}
	*b = decoded
	return nil
}

// Log represents a single event record emitted during transaction execution
type Log struct {
	Address Address `json:"address"`
	Topics  []Hash  `json:"topics"`
	Data    Bytes   `json:"data"`
}

// Receipt status values
const (
	ReceiptStatusFailed    = 0
	ReceiptStatusSucceeded = 1
)

// Receipt represents the execution result of a mined transaction
type Receipt struct {
	TxHash      Hash      `json:"transactionHash"`
	BlockNumber *Quantity `json:"blockNumber"`
	Status      *Quantity `json:"status"`
	GasUsed     *Quantity `json:"gasUsed"`
	Logs        []Log     `json:"logs"`
}

// Succeeded returns whether the receipt reports successful execution
func (r *Receipt) Succeeded() bool {
	return r.Status != nil && r.Status.Uint64() == ReceiptStatusSucceeded
}

// CallMsg describes a contract call for estimation or read-only execution
type CallMsg struct {
	From  Address
	To    Address
	Data  []byte
	Value *big.Int
	Gas   uint64
}
