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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blinklabs-io/gomarket"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/pin"
	"github.com/blinklabs-io/gomarket/signer"
)

type globalFlags struct {
	configFile string
	network    string
	endpoint   string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "gomarket",
		Short:         "Mint and trade content-backed assets on a marketplace contract",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(
		&f.configFile,
		"config",
		"",
		"config file to use (default $HOME/.gomarket.toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&f.network,
		"network",
		"sepolia",
		"network to operate against",
	)
	rootCmd.PersistentFlags().StringVar(
		&f.endpoint,
		"endpoint",
		"",
		"node endpoint URL. this overrides the network's default endpoint",
	)
	rootCmd.PersistentFlags().BoolVar(
		&f.verbose,
		"verbose",
		false,
		"enable debug logging",
	)
	rootCmd.AddCommand(
		newNetworksCmd(),
		newMintCmd(f),
		newListCmd(f),
		newBuyCmd(f),
		newBidCmd(f),
		newWithdrawCmd(f),
		newFeeCmd(f),
	)
	return rootCmd
}

// loadConfig reads the config file into a fresh viper instance. Mnemonic and
// pinning credentials come from the config or matching environment variables.
func loadConfig(f *globalFlags) (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetEnvPrefix("gomarket")
	cfg.AutomaticEnv()
	if f.configFile != "" {
		cfg.SetConfigFile(f.configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.AddConfigPath(home)
		cfg.SetConfigName(".gomarket")
		cfg.SetConfigType("toml")
	}
	if err := cfg.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars may carry everything
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(f *globalFlags) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
}

// newClient builds a connected client from the global flags and config
func newClient(cmd *cobra.Command, f *globalFlags) (*gomarket.Client, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	network := gomarket.NetworkByName(f.network)
	if !network.Valid() {
		return nil, fmt.Errorf("invalid network specified: %s", f.network)
	}
	if f.endpoint != "" {
		network.EndpointURL = f.endpoint
	}
	mnemonic := cfg.GetString("mnemonic")
	if mnemonic == "" {
		return nil, fmt.Errorf(
			"no mnemonic configured: set mnemonic in the config file or GOMARKET_MNEMONIC",
		)
	}
	logger := newLogger(f)
	node := ledger.NewRPCNode(
		network.EndpointURL,
		ledger.WithNodeLogger(logger),
	)
	walletSigner, err := signer.NewLocalSignerFromMnemonic(mnemonic, node)
	if err != nil {
		return nil, err
	}
	client, err := gomarket.New(
		gomarket.WithNetwork(network),
		gomarket.WithNode(node),
		gomarket.WithSigner(walletSigner),
		gomarket.WithLogger(logger),
		gomarket.WithMinConfirmations(cfg.GetUint64("confirmations")),
		gomarket.WithConfirmTimeout(5*time.Minute),
	)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(cmd.Context()); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// newPinClient builds a pinning client from the config
func newPinClient(f *globalFlags) (*pin.Client, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	baseURL := cfg.GetString("pin_url")
	if baseURL == "" {
		return nil, fmt.Errorf(
			"no pinning service configured: set pin_url in the config file or GOMARKET_PIN_URL",
		)
	}
	return pin.NewClient(
		baseURL,
		pin.WithAPIKey(cfg.GetString("pin_api_key")),
		pin.WithLogger(newLogger(f)),
	), nil
}
