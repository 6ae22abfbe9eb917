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

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIs(t *testing.T) {
	if !ErrNetwork.Is(ErrNetwork.New("boom")) {
		t.Fatalf("root did not match its own instance")
	}
	if !ErrNetwork.Is(Wrap(ErrNetwork.New("boom"), "outer layer")) {
		t.Fatalf("root did not match through multiple wrap layers")
	}
	if ErrNetwork.Is(ErrTimeout.New("boom")) {
		t.Fatalf("root matched an instance of a different kind")
	}
	if ErrNetwork.Is(fmt.Errorf("plain error")) {
		t.Fatalf("root matched an unrelated error")
	}
	if ErrNetwork.Is(nil) {
		t.Fatalf("root matched nil")
	}
}

func TestStdlibIs(t *testing.T) {
	// The wrap chain also supports stdlib errors.Is via Unwrap
	err := Wrapf(ErrEstimation, "simulating call: %s", "revert")
	if !stderrors.Is(err, ErrEstimation) {
		t.Fatalf("stdlib errors.Is did not match through the wrap chain")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "description") != nil {
		t.Fatalf("wrapping nil did not return nil")
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(ErrNothingToWithdraw.New("account has no proceeds"), "withdraw")
	expected := "withdraw: account has no proceeds: nothing to withdraw"
	if err.Error() != expected {
		t.Fatalf("did not get expected message: got %q, wanted %q", err.Error(), expected)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("did not get expected panic")
		}
	}()
	Register(2, "duplicate")
}

func TestRecover(t *testing.T) {
	fail := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fail()
	if !ErrPanic.Is(err) {
		t.Fatalf("did not get expected panic error: %v", err)
	}
}
