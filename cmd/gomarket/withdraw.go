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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/gomarket/unit"
)

func newWithdrawCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw accumulated sale proceeds from the marketplace",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, f)
			if err != nil {
				return err
			}
			defer client.Close()
			amount, err := client.Market().Withdraw(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"withdrew %s\n",
				unit.FromSmallestUnit(amount),
			)
			return nil
		},
	}
}
