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

// Package abi implements the subset of contract ABI encoding needed by the
// marketplace and asset registry calls: function selectors, event topics,
// static argument encoding (address, uint256, bool), and dynamic string and
// bytes arguments. Tuples and nested dynamic arrays are not supported.
package abi

import (
	"math/big"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
	"golang.org/x/crypto/sha3"
)

const (
	// SelectorLength is the length of a function selector in bytes
	SelectorLength = 4
	// WordLength is the length of an ABI word in bytes
	WordLength = 32
)

// Keccak256 returns the Keccak-256 digest of the provided data
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// Selector returns the 4-byte function selector for a canonical function
// signature such as "createListing(address,uint256,uint256)"
func Selector(signature string) []byte {
	return Keccak256([]byte(signature))[:SelectorLength]
}

// EventTopic returns the 32-byte topic hash for a canonical event signature
// such as "ItemListed(uint256,address,uint256,address,uint256)"
func EventTopic(signature string) ledger.Hash {
	var ret ledger.Hash
	copy(ret[:], Keccak256([]byte(signature)))
	return ret
}

// EncodeCall encodes a function call: the selector for the signature
// followed by the ABI-encoded arguments. Supported argument types are
// ledger.Address, *big.Int (uint256), uint64, bool, string, and []byte.
func EncodeCall(signature string, args ...any) ([]byte, error) {
	encoded, err := EncodeArgs(args...)
	if err != nil {
		return nil, err
	}
	return append(Selector(signature), encoded...), nil
}

// EncodeArgs ABI-encodes a list of arguments using standard head/tail
// encoding for dynamic types
func EncodeArgs(args ...any) ([]byte, error) {
	heads := make([][]byte, len(args))
	tails := make([][]byte, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case ledger.Address:
			heads[i] = EncodeAddress(v)
		case *big.Int:
			word, err := EncodeUint256(v)
			if err != nil {
				return nil, err
			}
			heads[i] = word
		case uint64:
			heads[i], _ = EncodeUint256(new(big.Int).SetUint64(v))
		case bool:
			heads[i] = EncodeBool(v)
		case string:
			tails[i] = encodeDynamicBytes([]byte(v))
		case []byte:
			tails[i] = encodeDynamicBytes(v)
		case []ledger.Address:
			tails[i] = encodeAddressArray(v)
		case []*big.Int:
			tail, err := encodeUint256Array(v)
			if err != nil {
				return nil, err
			}
			tails[i] = tail
		case []string:
			tails[i] = encodeStringArray(v)
		default:
			return nil, errors.ErrInvalidInput.Newf("unsupported ABI argument type %T", arg)
		}
	}
	// Dynamic arguments are referenced from the head section by their byte
	// offset within the full encoding
	headSize := len(args) * WordLength
	tailSize := 0
	for i := range args {
		if tails[i] != nil {
			offset, _ := EncodeUint256(big.NewInt(int64(headSize + tailSize)))
			heads[i] = offset
			tailSize += len(tails[i])
		}
	}
	ret := make([]byte, 0, headSize+tailSize)
	for _, head := range heads {
		ret = append(ret, head...)
	}
	for _, tail := range tails {
		ret = append(ret, tail...)
	}
	return ret, nil
}

// EncodeAddress encodes an address as a left-padded 32-byte word
func EncodeAddress(a ledger.Address) []byte {
	ret := make([]byte, WordLength)
	copy(ret[WordLength-ledger.AddressLength:], a[:])
	return ret
}

// EncodeUint256 encodes a non-negative integer as a 32-byte word
func EncodeUint256(v *big.Int) ([]byte, error) {
	if v == nil {
		v = big.NewInt(0)
	}
	if v.Sign() < 0 {
		return nil, errors.ErrInvalidInput.Newf("cannot encode negative value %s as uint256", v)
	}
	if v.BitLen() > 256 {
		return nil, errors.ErrInvalidInput.Newf("value %s overflows uint256", v)
	}
	ret := make([]byte, WordLength)
	v.FillBytes(ret)
	return ret, nil
}

// EncodeBool encodes a boolean as a 32-byte word
func EncodeBool(v bool) []byte {
	ret := make([]byte, WordLength)
	if v {
		ret[WordLength-1] = 1
	}
	return ret
}

// encodeAddressArray encodes a length-prefixed array of addresses
func encodeAddressArray(items []ledger.Address) []byte {
	length, _ := EncodeUint256(big.NewInt(int64(len(items))))
	ret := append([]byte(nil), length...)
	for _, item := range items {
		ret = append(ret, EncodeAddress(item)...)
	}
	return ret
}

// encodeUint256Array encodes a length-prefixed array of integers
func encodeUint256Array(items []*big.Int) ([]byte, error) {
	length, _ := EncodeUint256(big.NewInt(int64(len(items))))
	ret := append([]byte(nil), length...)
	for _, item := range items {
		word, err := EncodeUint256(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, word...)
	}
	return ret, nil
}

// encodeStringArray encodes a length-prefixed array of strings. Each
// element is dynamic, so the array body is offsets followed by the element
// encodings.
func encodeStringArray(items []string) []byte {
	length, _ := EncodeUint256(big.NewInt(int64(len(items))))
	ret := append([]byte(nil), length...)
	elements := make([][]byte, len(items))
	offset := len(items) * WordLength
	for i, item := range items {
		elements[i] = encodeDynamicBytes([]byte(item))
		word, _ := EncodeUint256(big.NewInt(int64(offset)))
		ret = append(ret, word...)
		offset += len(elements[i])
	}
	for _, element := range elements {
		ret = append(ret, element...)
	}
	return ret
}

// encodeDynamicBytes encodes a length-prefixed byte string padded to a word
// boundary
func encodeDynamicBytes(data []byte) []byte {
	length, _ := EncodeUint256(big.NewInt(int64(len(data))))
	padded := len(data)
	if rem := padded % WordLength; rem != 0 {
		padded += WordLength - rem
	}
	ret := make([]byte, 0, WordLength+padded)
	ret = append(ret, length...)
	ret = append(ret, data...)
	ret = append(ret, make([]byte, padded-len(data))...)
	return ret
}

// DecodeUint256 decodes a 32-byte word at the given word index of return
// data into a big integer
func DecodeUint256(data []byte, wordIndex int) (*big.Int, error) {
	start := wordIndex * WordLength
	if len(data) < start+WordLength {
		return nil, errors.ErrInvalidInput.Newf(
			"return data too short for word %d: %d bytes",
			wordIndex,
			len(data),
		)
	}
	return new(big.Int).SetBytes(data[start : start+WordLength]), nil
}

// DecodeAddress decodes a 32-byte word at the given word index of return
// data into an address
func DecodeAddress(data []byte, wordIndex int) (ledger.Address, error) {
	var ret ledger.Address
	if _, err := DecodeUint256(data, wordIndex); err != nil {
		return ret, err
	}
	start := wordIndex * WordLength
	copy(ret[:], data[start+WordLength-ledger.AddressLength:start+WordLength])
	return ret, nil
}

// DecodeBool decodes a 32-byte word at the given word index of return data
// into a boolean
func DecodeBool(data []byte, wordIndex int) (bool, error) {
	word, err := DecodeUint256(data, wordIndex)
	if err != nil {
		return false, err
	}
	return word.Sign() != 0, nil
}

// TopicUint256 decodes an indexed event topic as an integer
func TopicUint256(topic ledger.Hash) *big.Int {
	return new(big.Int).SetBytes(topic[:])
}

// TopicAddress decodes an indexed event topic as an address
func TopicAddress(topic ledger.Hash) ledger.Address {
	var ret ledger.Address
	copy(ret[:], topic[ledger.HashLength-ledger.AddressLength:])
	return ret
}
