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
	"github.com/blinklabs-io/gomarket/unit"
)

func newBuyCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <listing-id>",
		Short: "Buy a listed asset at its asking price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listingID, ok := new(big.Int).SetString(args[0], 10)
			if !ok {
				return errors.ErrInvalidInput.Newf("invalid listing id: %s", args[0])
			}
			client, err := newClient(cmd, f)
			if err != nil {
				return err
			}
			defer client.Close()
			listing, err := client.Market().GetListing(cmd.Context(), listingID)
			if err != nil {
				return err
			}
			price := unit.FromSmallestUnit(listing.Price)
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"buying token %s from %s for %s\n",
				listing.TokenID.String(),
				listing.Seller.String(),
				price,
			)
			if err := client.Market().BuyItem(cmd.Context(), listingID, price); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "purchase confirmed")
			return nil
		},
	}
}
