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

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/signer"
)

// ClientOptionFunc is a type that represents functions that modify the
// Client config
type ClientOptionFunc func(*Client)

// WithNetwork specifies the network to use
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.network = network
	}
}

// WithNetworkName specifies the network by name
func WithNetworkName(name string) ClientOptionFunc {
	return func(c *Client) {
		c.network = NetworkByName(name)
	}
}

// WithChainID specifies the network by chain ID
func WithChainID(chainID uint64) ClientOptionFunc {
	return func(c *Client) {
		c.network = NetworkByChainID(chainID)
	}
}

// WithNode specifies the ledger node connection to use instead of dialing
// the network's default endpoint
func WithNode(node ledger.Node) ClientOptionFunc {
	return func(c *Client) {
		c.node = node
	}
}

// WithSigner specifies the signer used for the account session
func WithSigner(s signer.Signer) ClientOptionFunc {
	return func(c *Client) {
		c.clientSigner = s
	}
}

// WithLogger specifies the logger to use. This defaults to discarding log
// entries
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithErrorChan specifies a custom channel for async errors. This channel
// is closed when the client is closed
func WithErrorChan(errorChan chan error) ClientOptionFunc {
	return func(c *Client) {
		c.errorChan = errorChan
	}
}

// WithPollInterval specifies how often the orchestrator polls for
// transaction receipts
func WithPollInterval(interval time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithMinConfirmations specifies the confirmation depth required before a
// transaction is reported as confirmed
func WithMinConfirmations(confirmations uint64) ClientOptionFunc {
	return func(c *Client) {
		c.minConfirmations = confirmations
	}
}

// WithConfirmTimeout specifies the maximum time to wait for a transaction
// to reach the required confirmation depth
func WithConfirmTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.confirmTimeout = timeout
	}
}
