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

package gomarket_test

import (
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/gomarket"
	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/internal/test"
	"github.com/blinklabs-io/gomarket/ledger"

	"go.uber.org/goleak"
)

func TestNewNoNetwork(t *testing.T) {
	_, err := gomarket.New()
	if !errors.ErrUnsupportedNetwork.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}

func TestNewUnknownNetworkName(t *testing.T) {
	_, err := gomarket.New(gomarket.WithNetworkName("foo"))
	if !errors.ErrUnsupportedNetwork.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	client, err := gomarket.New(gomarket.WithChainID(11155111))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defer client.Close()
	if client.Network() != gomarket.NetworkSepolia {
		t.Fatalf("did not get expected network: %s", client.Network())
	}
	// The node defaults to an RPC connection to the network endpoint
	if client.Node() == nil {
		t.Fatalf("did not get expected default node")
	}
	if client.Session() == nil || client.Orchestrator() == nil ||
		client.Market() == nil || client.Asset() == nil {
		t.Fatalf("did not get expected client components")
	}
	if client.ErrorChan() == nil {
		t.Fatalf("did not get expected error channel")
	}
}

func TestClientConnect(t *testing.T) {
	defer goleak.VerifyNone(t)
	account := ledger.Address{0xaa}
	mockSigner := test.NewMockSigner(11155111, account)
	mockNode := test.NewMockNode(11155111)
	client, err := gomarket.New(
		gomarket.WithNetwork(gomarket.NetworkSepolia),
		gomarket.WithNode(mockNode),
		gomarket.WithSigner(mockSigner),
		gomarket.WithPollInterval(10*time.Millisecond),
		gomarket.WithConfirmTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error connecting: %s", err)
	}
	if client.Session().Account() != account {
		t.Fatalf(
			"did not get expected session account: %s",
			client.Session().Account(),
		)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected error closing: %s", err)
	}
}

func TestClientDoubleClose(t *testing.T) {
	mockSigner := test.NewMockSigner(11155111, ledger.Address{0xaa})
	client, err := gomarket.New(
		gomarket.WithNetwork(gomarket.NetworkSepolia),
		gomarket.WithNode(test.NewMockNode(11155111)),
		gomarket.WithSigner(mockSigner),
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected error closing: %s", err)
	}
	// Close is idempotent
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected error closing: %s", err)
	}
}
