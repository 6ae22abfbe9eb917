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
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRlpBytes(t *testing.T) {
	testDefs := []struct {
		data     []byte
		expected []byte
	}{
		{nil, []byte{0x80}},
		{[]byte{}, []byte{0x80}},
		{[]byte{0x00}, []byte{0x00}},
		{[]byte{0x7f}, []byte{0x7f}},
		{[]byte{0x80}, []byte{0x81, 0x80}},
		{[]byte("dog"), []byte{0x83, 'd', 'o', 'g'}},
		{
			bytes.Repeat([]byte{0x61}, 55),
			append([]byte{0xb7}, bytes.Repeat([]byte{0x61}, 55)...),
		},
		{
			bytes.Repeat([]byte{0x61}, 56),
			append([]byte{0xb8, 56}, bytes.Repeat([]byte{0x61}, 56)...),
		},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			testDef.expected,
			rlpBytes(testDef.data),
			"did not get expected encoding for %x",
			testDef.data,
		)
	}
}

func TestRlpUint(t *testing.T) {
	testDefs := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x80}},
		{15, []byte{0x0f}},
		{128, []byte{0x81, 0x80}},
		{1024, []byte{0x82, 0x04, 0x00}},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			testDef.expected,
			rlpUint(testDef.value),
			"did not get expected encoding for %d",
			testDef.value,
		)
	}
}

func TestRlpBigInt(t *testing.T) {
	assert.Equal(t, []byte{0x80}, rlpBigInt(nil))
	assert.Equal(t, []byte{0x80}, rlpBigInt(big.NewInt(0)))
	assert.Equal(t, []byte{0x0f}, rlpBigInt(big.NewInt(15)))
	assert.Equal(
		t,
		[]byte{0x88, 0x0d, 0xe0, 0xb6, 0xb3, 0xa7, 0x64, 0x00, 0x00},
		rlpBigInt(new(big.Int).SetUint64(1000000000000000000)),
	)
}

func TestRlpList(t *testing.T) {
	assert.Equal(t, []byte{0xc0}, rlpList())
	assert.Equal(
		t,
		[]byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'},
		rlpList(rlpBytes([]byte("cat")), rlpBytes([]byte("dog"))),
	)
	// Payloads over 55 bytes take a length-of-length prefix
	longItem := rlpBytes(bytes.Repeat([]byte{0x61}, 60))
	encoded := rlpList(longItem)
	assert.Equal(t, []byte{0xf8, 62}, encoded[:2])
	assert.Equal(t, longItem, encoded[2:])
}
