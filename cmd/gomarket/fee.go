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
)

func newFeeCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fee <price>",
		Short: "Show the platform fee for a sale price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, f)
			if err != nil {
				return err
			}
			defer client.Close()
			feeBps, err := client.Market().PlatformFeeBps(cmd.Context())
			if err != nil {
				return err
			}
			fee, err := client.Market().CalculatePlatformFee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"platform fee on %s: %s (%d bps)\n",
				args[0],
				fee,
				feeBps,
			)
			return nil
		},
	}
}
