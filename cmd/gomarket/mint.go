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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/gomarket/asset"
	"github.com/blinklabs-io/gomarket/ledger"
)

func newMintCmd(f *globalFlags) *cobra.Command {
	var metadataFile string
	var metadataRef string
	var royaltyRecipient string
	var royaltyBps int64
	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a new asset, uploading its metadata to the pinning service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if metadataFile == "" && metadataRef == "" {
				return fmt.Errorf("one of --metadata-file or --metadata-ref is required")
			}
			if metadataRef == "" {
				pinClient, err := newPinClient(f)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(metadataFile)
				if err != nil {
					return err
				}
				result, err := pinClient.Upload(
					cmd.Context(),
					data,
					filepath.Base(metadataFile),
				)
				if err != nil {
					return err
				}
				metadataRef = result.Reference
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"pinned metadata: %s (%d bytes)\n",
					result.Reference,
					result.Size,
				)
			}
			client, err := newClient(cmd, f)
			if err != nil {
				return err
			}
			defer client.Close()
			params := asset.MintParams{
				To:          client.Session().Account(),
				MetadataRef: metadataRef,
				RoyaltyBps:  royaltyBps,
			}
			if royaltyRecipient != "" {
				recipient, err := ledger.ParseAddress(royaltyRecipient)
				if err != nil {
					return err
				}
				params.RoyaltyRecipient = recipient
			} else {
				params.RoyaltyRecipient = client.Session().Account()
			}
			tokenID, err := client.Asset().Mint(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "minted token %s\n", tokenID.String())
			return nil
		},
	}
	mintCmd.Flags().StringVar(
		&metadataFile,
		"metadata-file",
		"",
		"metadata file to upload to the pinning service",
	)
	mintCmd.Flags().StringVar(
		&metadataRef,
		"metadata-ref",
		"",
		"existing metadata reference. this skips the pinning upload",
	)
	mintCmd.Flags().StringVar(
		&royaltyRecipient,
		"royalty-recipient",
		"",
		"royalty recipient address (defaults to the minting account)",
	)
	mintCmd.Flags().Int64Var(
		&royaltyBps,
		"royalty-bps",
		0,
		"creator royalty in basis points (defaults to 250)",
	)
	return mintCmd
}
