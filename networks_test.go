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

package gomarket

import "testing"

func TestNetworkByName(t *testing.T) {
	testDefs := map[string]Network{
		"mainnet": NetworkMainnet,
		"sepolia": NetworkSepolia,
		"holesky": NetworkHolesky,
		"polygon": NetworkPolygon,
		"foo":     NetworkInvalid,
		"":        NetworkInvalid,
	}
	for name, expected := range testDefs {
		if network := NetworkByName(name); network != expected {
			t.Fatalf(
				"did not get expected network for name %q: got %s, wanted %s",
				name,
				network,
				expected,
			)
		}
	}
}

func TestNetworkByChainID(t *testing.T) {
	testDefs := map[uint64]Network{
		1:        NetworkMainnet,
		11155111: NetworkSepolia,
		17000:    NetworkHolesky,
		137:      NetworkPolygon,
		999999:   NetworkInvalid,
		0:        NetworkInvalid,
	}
	for chainID, expected := range testDefs {
		if network := NetworkByChainID(chainID); network != expected {
			t.Fatalf(
				"did not get expected network for chain id %d: got %s, wanted %s",
				chainID,
				network,
				expected,
			)
		}
	}
}

func TestNetworkValid(t *testing.T) {
	for _, network := range Networks() {
		if !network.Valid() {
			t.Fatalf("network %s unexpectedly invalid", network)
		}
	}
	if NetworkInvalid.Valid() {
		t.Fatalf("invalid network unexpectedly valid")
	}
	if (Network{}).Valid() {
		t.Fatalf("zero network unexpectedly valid")
	}
}

// Mutating the returned slice must not touch the registry
func TestNetworksCopies(t *testing.T) {
	tmpNetworks := Networks()
	tmpNetworks[0] = NetworkInvalid
	if NetworkByChainID(NetworkMainnet.ChainID) != NetworkMainnet {
		t.Fatalf("network registry was mutated through Networks()")
	}
}
