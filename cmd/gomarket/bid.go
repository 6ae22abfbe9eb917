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
	"math/big"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/gomarket/errors"
)

func newBidCmd(f *globalFlags) *cobra.Command {
	var amount string
	bidCmd := &cobra.Command{
		Use:   "bid <auction-id>",
		Short: "Place a bid on an open auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auctionID, ok := new(big.Int).SetString(args[0], 10)
			if !ok {
				return errors.ErrInvalidInput.Newf("invalid auction id: %s", args[0])
			}
			client, err := newClient(cmd, f)
			if err != nil {
				return err
			}
			defer client.Close()
			if err := client.Market().PlaceBid(cmd.Context(), auctionID, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "bid confirmed")
			return nil
		},
	}
	bidCmd.Flags().StringVar(&amount, "amount", "", "bid amount in whole units")
	_ = bidCmd.MarkFlagRequired("amount")
	return bidCmd
}
