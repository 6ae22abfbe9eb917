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

// Package session implements the account session: one connected signer, its
// current account and chain, and the connect/disconnect/switch lifecycle.
//
// Signer events are consumed on an internal goroutine and applied to the
// session state without blocking in-flight ledger calls; such calls hold the
// snapshot taken at submission time and are never retargeted.
package session

import (
	"context"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/signer"
)

// State is the connection state of a session
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	}
	return "Unknown"
}

// Snapshot is an immutable view of the session state. In-flight calls hold
// the snapshot taken when they were submitted.
type Snapshot struct {
	State   State
	Account ledger.Address
	ChainID uint64
	Balance *big.Int
}

// Resolver reports whether a chain id is known to the network registry and
// returns the parameters needed to add it to a signer
type Resolver func(chainID uint64) (signer.ChainParams, bool)

const (
	// balanceRefreshTimeout bounds the balance read triggered by an
	// account-changed event
	balanceRefreshTimeout = 10 * time.Second
	// updatesBufferSize is the capacity of the state-change channel
	updatesBufferSize = 16
	// errorBufferSize is the capacity of the async error channel
	errorBufferSize = 8
)

// Session represents one connected signer
type Session struct {
	signer     signer.Signer
	node       ledger.Node
	resolve    Resolver
	logger     *slog.Logger
	mutex      sync.Mutex
	state      State
	account    ledger.Address
	chainID    uint64
	balance    *big.Int
	updateChan chan Snapshot
	errorChan  chan error
	doneChan   chan struct{}
	waitGroup  sync.WaitGroup
	onceClose  sync.Once
}

// SessionOptionFunc is a function that modifies a Session
type SessionOptionFunc func(*Session)

// WithLogger specifies the logger for session events
func WithLogger(logger *slog.Logger) SessionOptionFunc {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithErrorChan specifies a custom channel for async errors. The channel is
// closed by Close.
func WithErrorChan(errorChan chan error) SessionOptionFunc {
	return func(s *Session) {
		s.errorChan = errorChan
	}
}

// New returns a new Session for the specified signer, node, and network
// resolver. The session starts Disconnected; call Connect to begin.
func New(
	sessionSigner signer.Signer,
	node ledger.Node,
	resolve Resolver,
	options ...SessionOptionFunc,
) *Session {
	s := &Session{
		signer:     sessionSigner,
		node:       node,
		resolve:    resolve,
		updateChan: make(chan Snapshot, updatesBufferSize),
		doneChan:   make(chan struct{}),
	}
	// Apply provided options functions
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.errorChan == nil {
		s.errorChan = make(chan error, errorBufferSize)
	}
	if s.signer != nil {
		s.waitGroup.Add(1)
		go s.eventLoop()
	}
	return s
}

// Connect requests account access from the signer, reads the active chain id
// and account balance, and transitions to Connected. It fails with
// ErrNoSigner when no signer is configured and propagates ErrUserRejected
// when the user declines.
func (s *Session) Connect(ctx context.Context) error {
	if s.signer == nil {
		return errors.ErrNoSigner.New("no signer configured")
	}
	s.mutex.Lock()
	if s.state != StateDisconnected {
		s.mutex.Unlock()
		return errors.ErrState.Newf("cannot connect from state %s", s.state)
	}
	s.state = StateConnecting
	s.mutex.Unlock()

	accounts, err := s.signer.RequestAccounts(ctx)
	if err != nil {
		s.setDisconnected()
		return errors.Wrap(err, "request accounts")
	}
	if len(accounts) == 0 {
		s.setDisconnected()
		return errors.ErrNoSigner.New("signer returned no accounts")
	}
	chainID, err := s.signer.ChainID(ctx)
	if err != nil {
		s.setDisconnected()
		return errors.Wrap(err, "read chain id")
	}
	if _, ok := s.resolve(chainID); !ok {
		s.setDisconnected()
		return errors.ErrUnsupportedNetwork.Newf("chain id %d", chainID)
	}
	balance, err := s.node.BalanceAt(ctx, accounts[0])
	if err != nil {
		s.setDisconnected()
		return errors.Wrap(err, "read balance")
	}

	s.mutex.Lock()
	s.state = StateConnected
	s.account = accounts[0]
	s.chainID = chainID
	s.balance = balance
	snapshot := s.snapshotLocked()
	s.mutex.Unlock()
	s.logger.Debug(
		"session connected",
		"component", "session",
		"account", snapshot.Account.String(),
		"chain_id", snapshot.ChainID,
	)
	s.publish(snapshot)
	return nil
}

// Disconnect resets the session to Disconnected. The signer itself is left
// untouched.
func (s *Session) Disconnect() {
	s.setDisconnected()
}

// SwitchNetwork asks the signer to switch its active chain. When the signer
// reports the chain as unknown, the session adds it using the network
// registry entry and retries the switch exactly once. Any other error
// propagates unchanged.
func (s *Session) SwitchNetwork(ctx context.Context, chainID uint64) error {
	if s.signer == nil {
		return errors.ErrNoSigner.New("no signer configured")
	}
	params, ok := s.resolve(chainID)
	if !ok {
		return errors.ErrUnsupportedNetwork.Newf("chain id %d", chainID)
	}
	err := s.signer.SwitchChain(ctx, chainID)
	if err == nil {
		s.applyChainID(chainID)
		return nil
	}
	if !signer.ErrUnknownChain.Is(err) {
		return err
	}
	s.logger.Debug(
		"signer does not know chain, adding from registry",
		"component", "session",
		"chain_id", chainID,
	)
	if err := s.signer.AddChain(ctx, params); err != nil {
		return errors.Wrap(err, "add chain")
	}
	if err := s.signer.SwitchChain(ctx, chainID); err != nil {
		return err
	}
	s.applyChainID(chainID)
	return nil
}

// Connected returns whether the session is in the Connected state
func (s *Session) Connected() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state == StateConnected
}

// Account returns the current account address
func (s *Session) Account() ledger.Address {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.account
}

// ChainID returns the current chain id
func (s *Session) ChainID() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.chainID
}

// Signer returns the session's signer
func (s *Session) Signer() signer.Signer {
	return s.signer
}

// Snapshot returns an immutable view of the current session state
func (s *Session) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.snapshotLocked()
}

// Updates returns the channel the session publishes state changes on. The
// channel is closed by Close. Slow consumers may miss intermediate states;
// the latest state is always available from Snapshot.
func (s *Session) Updates() <-chan Snapshot {
	return s.updateChan
}

// ErrorChan returns the channel the session publishes async errors on:
// failures from background work triggered by signer events, which have no
// caller to return to. The channel is closed by Close.
func (s *Session) ErrorChan() <-chan error {
	return s.errorChan
}

// Close stops the event goroutine and closes the updates and error channels
func (s *Session) Close() error {
	s.onceClose.Do(func() {
		close(s.doneChan)
		s.waitGroup.Wait()
		close(s.updateChan)
		close(s.errorChan)
	})
	return nil
}

// snapshotLocked builds a Snapshot; the caller must hold the mutex
func (s *Session) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		State:   s.state,
		Account: s.account,
		ChainID: s.chainID,
	}
	if s.balance != nil {
		snapshot.Balance = new(big.Int).Set(s.balance)
	}
	return snapshot
}

func (s *Session) setDisconnected() {
	s.mutex.Lock()
	s.state = StateDisconnected
	s.account = ledger.Address{}
	s.chainID = 0
	s.balance = nil
	snapshot := s.snapshotLocked()
	s.mutex.Unlock()
	s.publish(snapshot)
}

func (s *Session) applyChainID(chainID uint64) {
	s.mutex.Lock()
	s.chainID = chainID
	snapshot := s.snapshotLocked()
	s.mutex.Unlock()
	s.publish(snapshot)
}

// publish sends a state change without blocking. The channel is buffered;
// if a consumer has fallen this far behind, the intermediate state is
// dropped in favor of the snapshot accessors.
func (s *Session) publish(snapshot Snapshot) {
	select {
	case s.updateChan <- snapshot:
	default:
	}
}

// publishError reports an async error without blocking
func (s *Session) publishError(err error) {
	select {
	case s.errorChan <- err:
	default:
	}
}

// eventLoop consumes signer events until the signer's event channel closes
// or the session is closed
func (s *Session) eventLoop() {
	defer s.waitGroup.Done()
	events := s.signer.Events()
	for {
		select {
		case <-s.doneChan:
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			s.handleSignerEvent(evt)
		}
	}
}

func (s *Session) handleSignerEvent(evt signer.Event) {
	switch e := evt.(type) {
	case signer.AccountsChangedEvent:
		if len(e.Accounts) == 0 {
			// Zero accounts means access was revoked
			s.logger.Debug(
				"signer revoked account access",
				"component", "session",
			)
			s.setDisconnected()
			return
		}
		s.mutex.Lock()
		if s.state != StateConnected || s.account == e.Accounts[0] {
			s.mutex.Unlock()
			return
		}
		s.account = e.Accounts[0]
		s.balance = nil
		snapshot := s.snapshotLocked()
		s.mutex.Unlock()
		s.publish(snapshot)
		s.refreshBalance(snapshot.Account)
	case signer.ChainChangedEvent:
		s.mutex.Lock()
		if s.state != StateConnected || s.chainID == e.ChainID {
			s.mutex.Unlock()
			return
		}
		s.chainID = e.ChainID
		snapshot := s.snapshotLocked()
		s.mutex.Unlock()
		// The chain id is applied either way so the session tracks the
		// signer, but a chain outside the registry is surfaced to the
		// consumer
		if _, ok := s.resolve(e.ChainID); !ok {
			s.logger.Warn(
				"signer switched to unregistered chain",
				"component", "session",
				"chain_id", e.ChainID,
			)
			s.publishError(
				errors.ErrUnsupportedNetwork.Newf("chain id %d", e.ChainID),
			)
		}
		s.publish(snapshot)
	}
}

// refreshBalance re-reads the balance after an account change. Failures are
// logged and leave the balance unset until the next successful read.
func (s *Session) refreshBalance(account ledger.Address) {
	ctx, cancel := context.WithTimeout(context.Background(), balanceRefreshTimeout)
	defer cancel()
	balance, err := s.node.BalanceAt(ctx, account)
	if err != nil {
		s.logger.Warn(
			"balance refresh failed",
			"component", "session",
			"account", account.String(),
			"error", err,
		)
		s.publishError(errors.Wrap(err, "balance refresh"))
		return
	}
	s.mutex.Lock()
	// The account may have changed again while we were reading
	if s.account == account {
		s.balance = balance
	}
	snapshot := s.snapshotLocked()
	s.mutex.Unlock()
	s.publish(snapshot)
}
