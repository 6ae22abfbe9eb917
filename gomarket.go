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

// Package gomarket implements a client for minting content-backed assets
// and trading them on a marketplace contract deployed to Ethereum-compatible
// networks.
//
// The client wires together an account session, a ledger node connection,
// and the transaction orchestrator, and exposes the marketplace and asset
// registry operations built on them. The subpackages can be used outside of
// this one, but it's not a primary design goal.
package gomarket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/gomarket/asset"
	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/market"
	"github.com/blinklabs-io/gomarket/session"
	"github.com/blinklabs-io/gomarket/signer"
	"github.com/blinklabs-io/gomarket/tx"
)

// The Client type wraps a ledger node connection and a signer session and
// provides the marketplace and asset registry operations on top of them
type Client struct {
	network          Network
	node             ledger.Node
	clientSigner     signer.Signer
	logger           *slog.Logger
	pollInterval     time.Duration
	minConfirmations uint64
	confirmTimeout   time.Duration
	errorChan        chan error
	sess             *session.Session
	orch             *tx.Orchestrator
	mkt              *market.Market
	assets           *asset.Registry
	onceClose        sync.Once
}

// New returns a new Client with the specified options. A network must be
// selected via WithNetwork, WithNetworkName, or WithChainID.
func New(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if !c.network.Valid() {
		return nil, errors.ErrUnsupportedNetwork.New("no network selected")
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.node == nil {
		c.node = ledger.NewRPCNode(
			c.network.EndpointURL,
			ledger.WithNodeLogger(c.logger),
		)
	}
	sessionOptions := []session.SessionOptionFunc{
		session.WithLogger(c.logger),
	}
	if c.errorChan != nil {
		sessionOptions = append(sessionOptions, session.WithErrorChan(c.errorChan))
	}
	c.sess = session.New(
		c.clientSigner,
		c.node,
		func(chainID uint64) (signer.ChainParams, bool) {
			network := NetworkByChainID(chainID)
			if !network.Valid() {
				return signer.ChainParams{}, false
			}
			return signer.ChainParams{
				ChainID:     network.ChainID,
				Name:        network.Name,
				EndpointURL: network.EndpointURL,
			}, true
		},
		sessionOptions...,
	)
	orchOptions := []tx.OrchestratorOptionFunc{
		tx.WithLogger(c.logger),
	}
	if c.pollInterval > 0 {
		orchOptions = append(orchOptions, tx.WithPollInterval(c.pollInterval))
	}
	c.orch = tx.NewOrchestrator(c.sess, c.node, orchOptions...)
	c.mkt = market.New(
		c.orch,
		c.sess,
		c.node,
		c.network.MarketplaceContract,
		market.WithLogger(c.logger),
		market.WithMinConfirmations(c.minConfirmations),
		market.WithConfirmTimeout(c.confirmTimeout),
	)
	c.assets = asset.New(
		c.orch,
		c.sess,
		c.node,
		c.network.AssetContract,
		c.network.MarketplaceContract,
		asset.WithLogger(c.logger),
		asset.WithMinConfirmations(c.minConfirmations),
		asset.WithConfirmTimeout(c.confirmTimeout),
	)
	return c, nil
}

// Connect establishes the signer session. It's shorthand for
// Session().Connect.
func (c *Client) Connect(ctx context.Context) error {
	return c.sess.Connect(ctx)
}

// Network returns the network the client was built for
func (c *Client) Network() Network {
	return c.network
}

// Node returns the ledger node connection
func (c *Client) Node() ledger.Node {
	return c.node
}

// Session returns the account session
func (c *Client) Session() *session.Session {
	return c.sess
}

// ErrorChan returns the channel async errors are published on. It's
// shorthand for Session().ErrorChan.
func (c *Client) ErrorChan() <-chan error {
	return c.sess.ErrorChan()
}

// Orchestrator returns the transaction orchestrator
func (c *Client) Orchestrator() *tx.Orchestrator {
	return c.orch
}

// Market returns the marketplace operations handler
func (c *Client) Market() *market.Market {
	return c.mkt
}

// Asset returns the asset registry operations handler
func (c *Client) Asset() *asset.Registry {
	return c.assets
}

// Close shuts down the session and the signer
func (c *Client) Close() error {
	var err error
	c.onceClose.Do(func() {
		err = c.sess.Close()
		if c.clientSigner != nil {
			if signerErr := c.clientSigner.Close(); err == nil {
				err = signerErr
			}
		}
	})
	return err
}
