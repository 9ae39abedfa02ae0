// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/addrlens/config"
	"github.com/tranvictor/addrlens/identity"
	"github.com/tranvictor/addrlens/networks"
	"github.com/tranvictor/addrlens/util/cache"
	"github.com/tranvictor/addrlens/util/explorers"
	"github.com/tranvictor/addrlens/util/logger"
)

var appLogger = logger.Nop()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "addrlens",
	Short: "Look up an address or name and show what is behind it",
	Long: fmt.Sprintf(`addrlens takes an address or a name (ENS name or a label from your
address book), resolves it to a checksummed address, tells whether it is a
plain account or a contract and, for contracts, shows the verified source
metadata from Sourcify, Etherscan or Blockscout.

Every network reads its nodes from an env var, e.g. %s for mainnet, and
custom networks can be added with "addrlens network add". Explorer api keys
are read the same way, e.g. %s.

Labels are read from ~/addresses.json and ~/.addrlens/labels.json, both a
json object from address to label. Code presence answers are cached in
%s.`,
		networks.EthereumMainnet.GetNodeVariableName(),
		networks.EthereumMainnet.GetBlockExplorerAPIKeyVariableName(),
		cache.CACHE_PATH,
	),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(config.LogLevel, config.LogJSON)
		if err != nil {
			return err
		}
		appLogger = l
		if err := config.ValidateNamingService(config.NamingService); err != nil {
			return err
		}
		if _, err := networks.SetNetwork(config.Network); err != nil {
			return fmt.Errorf(
				"%w, supported networks: %s",
				err, strings.Join(networks.GetSupportedNetworkNames(), ", "),
			)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&config.Network, "network", "k", "mainnet", fmt.Sprintf(
		"network to look addresses up on. Valid values: %s.",
		strings.Join(networks.GetSupportedNetworkNames(), ", "),
	))
	flags.StringVar(&config.NamingService, "naming-service", config.NAMING_AUTO,
		"how names are resolved: \"ens\", \"addrbook\" (local labels) or \"auto\" (ens, then labels)")
	flags.StringVar(&config.Backends, "backends", config.DEFAULT_BACKENDS,
		"comma separated verification backends, asked in order: sourcify-full, sourcify-partial, etherscan, blockscout")
	flags.StringVar(&config.SourcifyServer, "sourcify-server", explorers.DEFAULT_SOURCIFY_SERVER, "sourcify repository server")
	flags.BoolVar(&config.RetryFailedMetadata, "retry-failed-metadata", false,
		"look metadata up again when an earlier lookup failed (not when it found nothing)")
	flags.DurationVar(&config.LookupTimeout, "lookup-timeout", identity.DEFAULT_LOOKUP_TIMEOUT, "timeout of one name lookup")
	flags.StringVar(&config.CacheFile, "cache-file", cache.CACHE_PATH, "file persisting code presence answers")
	flags.BoolVar(&config.NoCache, "no-cache", false, "don't read or write the cache file")
	flags.StringVar(&config.LogLevel, "log-level", "warn", "debug, info, warn or error")
	flags.BoolVar(&config.LogJSON, "log-json", false, "log as json")

	err := rootCmd.Execute()
	appLogger.Sync()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
