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

package tx

import (
	"math/big"

	"github.com/jinzhu/copier"
)

// cloneRequest deep-copies a call request into the submission record so the
// record stays stable even if the caller reuses its buffers
func cloneRequest(request CallRequest) CallRequest {
	var ret CallRequest
	_ = copier.CopyWithOption(
		&ret,
		&request,
		copier.Option{DeepCopy: true},
	)
	// big.Int holds its words in unexported fields that a reflection-based
	// copy cannot see, so the value is copied explicitly
	if request.Value != nil {
		ret.Value = new(big.Int).Set(request.Value)
	}
	return ret
}
