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

package signer

import (
	"math/big"
)

// Minimal RLP encoding, enough for legacy transaction signing. Only the
// encode direction is needed; the node decodes.

const (
	rlpShortStringOffset = 0x80
	rlpShortListOffset   = 0xc0
	rlpShortLengthMax    = 55
)

// rlpBytes encodes a byte string
func rlpBytes(data []byte) []byte {
	if len(data) == 1 && data[0] < rlpShortStringOffset {
		return data
	}
	return append(rlpLength(len(data), rlpShortStringOffset), data...)
}

// rlpUint encodes an unsigned integer as a big-endian byte string with no
// leading zeros
func rlpUint(v uint64) []byte {
	return rlpBytes(trimLeadingZeros(new(big.Int).SetUint64(v).Bytes()))
}

// rlpBigInt encodes a non-negative big integer. A nil value encodes as zero.
func rlpBigInt(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return rlpBytes(nil)
	}
	return rlpBytes(v.Bytes())
}

// rlpList encodes a list from already-encoded items
func rlpList(items ...[]byte) []byte {
	var payload []byte
	for _, item := range items {
		payload = append(payload, item...)
	}
	return append(rlpLength(len(payload), rlpShortListOffset), payload...)
}

// rlpLength encodes a payload length with the given type offset
func rlpLength(length int, offset byte) []byte {
	if length <= rlpShortLengthMax {
		return []byte{offset + byte(length)}
	}
	lenBytes := trimLeadingZeros(new(big.Int).SetInt64(int64(length)).Bytes())
	ret := []byte{offset + rlpShortLengthMax + byte(len(lenBytes))}
	return append(ret, lenBytes...)
}

func trimLeadingZeros(data []byte) []byte {
	for len(data) > 0 && data[0] == 0 {
		data = data[1:]
	}
	return data
}
