package search

import (
	"fmt"

	"github.com/ValentinKolb/qkv/cmd/util"
	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/command"
	"github.com/ValentinKolb/qkv/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcCluster cluster.ICluster

	// SearchCommands represents the search command group
	SearchCommands = &cobra.Command{
		Use:               "search",
		Short:             "Read search index descriptions",
		PersistentPreRunE: setupSearchClient,
	}

	indexCmd = &cobra.Command{
		Use:   "index [name]",
		Short: "Fetches the description of a search index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := command.NewFetchSearchIndex(args[0]).Build().Execute(rpcCluster)
			if err != nil {
				return err
			}
			fmt.Printf("name=%s\n", desc.Name)
			if desc.Schema != "" {
				fmt.Printf("schema=%s\n", desc.Schema)
			}
			if desc.NVal != 0 {
				fmt.Printf("nval=%d\n", desc.NVal)
			}
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the search command
	util.SetupRPCClientFlags(SearchCommands)

	// Set default shard ID for search operations
	SearchCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	SearchCommands.AddCommand(indexCmd)
}

// setupSearchClient initializes the RPC cluster client
func setupSearchClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the cluster client
	rpcCluster, err = client.NewRPCCluster(
		shardId,
		*config,
		t,
		s,
	)

	return err
}
