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

import "github.com/blinklabs-io/gomarket/ledger"

// Network definitions. Adding a network is a data change here, not a code
// change anywhere else.
var (
	NetworkMainnet = Network{
		ChainID:             1,
		Name:                "mainnet",
		EndpointURL:         "https://eth.llamarpc.com",
		AssetContract:       ledger.MustParseAddress("0x4b1f9cfe20d5b0a3c74b13b6cbf9bd1f38c2a9d0"),
		MarketplaceContract: ledger.MustParseAddress("0x3f4e53a1ad57f3e4d5b6c7d8e9f0a1b2c3d4e5f6"),
	}
	NetworkSepolia = Network{
		ChainID:             11155111,
		Name:                "sepolia",
		EndpointURL:         "https://rpc.sepolia.org",
		AssetContract:       ledger.MustParseAddress("0x1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d"),
		MarketplaceContract: ledger.MustParseAddress("0x5e6f708192a3b4c5d6e7f8091a2b3c4d1a2b3c4d"),
	}
	NetworkHolesky = Network{
		ChainID:             17000,
		Name:                "holesky",
		EndpointURL:         "https://ethereum-holesky-rpc.publicnode.com",
		AssetContract:       ledger.MustParseAddress("0x708192a3b4c5d6e7f8091a2b3c4d1a2b3c4d5e6f"),
		MarketplaceContract: ledger.MustParseAddress("0x92a3b4c5d6e7f8091a2b3c4d1a2b3c4d5e6f7081"),
	}
	NetworkPolygon = Network{
		ChainID:             137,
		Name:                "polygon",
		EndpointURL:         "https://polygon-rpc.com",
		AssetContract:       ledger.MustParseAddress("0xb4c5d6e7f8091a2b3c4d1a2b3c4d5e6f708192a3"),
		MarketplaceContract: ledger.MustParseAddress("0xc5d6e7f8091a2b3c4d1a2b3c4d5e6f708192a3b4"),
	}

	NetworkInvalid = Network{
		ChainID: 0,
		Name:    "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkSepolia,
	NetworkHolesky,
	NetworkPolygon,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByChainID returns a predefined network by chain id
func NetworkByChainID(chainID uint64) Network {
	for _, network := range networks {
		if network.ChainID == chainID {
			return network
		}
	}
	return NetworkInvalid
}

// Networks returns the predefined networks
func Networks() []Network {
	return append([]Network(nil), networks...)
}

// Network represents a supported ledger network and the contract addresses
// used on it
type Network struct {
	ChainID             uint64
	Name                string
	EndpointURL         string
	AssetContract       ledger.Address
	MarketplaceContract ledger.Address
}

func (n Network) String() string {
	return n.Name
}

// Valid returns whether this is a real registry entry
func (n Network) Valid() bool {
	return n.ChainID != 0
}
