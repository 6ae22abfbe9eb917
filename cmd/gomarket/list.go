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

func newListCmd(f *globalFlags) *cobra.Command {
	var price string
	listCmd := &cobra.Command{
		Use:   "list <token-id>",
		Short: "List an asset for sale at a fixed price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenID, ok := new(big.Int).SetString(args[0], 10)
			if !ok {
				return errors.ErrInvalidInput.Newf("invalid token id: %s", args[0])
			}
			client, err := newClient(cmd, f)
			if err != nil {
				return err
			}
			defer client.Close()
			// The marketplace must be approved to transfer the asset on sale
			approved, err := client.Asset().IsApprovedForAll(cmd.Context())
			if err != nil {
				return err
			}
			if !approved {
				if err := client.Asset().SetApprovalForAll(cmd.Context(), true); err != nil {
					return err
				}
			}
			listingID, err := client.Market().CreateListing(
				cmd.Context(),
				client.Asset().Contract(),
				tokenID,
				price,
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created listing %s\n", listingID.String())
			return nil
		},
	}
	listCmd.Flags().StringVar(&price, "price", "", "listing price in whole units")
	_ = listCmd.MarkFlagRequired("price")
	return listCmd
}
