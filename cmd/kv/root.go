package kv

import (
	"github.com/ValentinKolb/qkv/cmd/util"
	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcCluster cluster.ICluster

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value operations",
		PersistentPreRunE: setupKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Set default shard ID for key value operations
	KeyValueCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// The namespace of the locations addressed by the subcommands
	KeyValueCommands.PersistentFlags().String("namespace", "", util.WrapString("Namespace of the addressed location (empty selects the default namespace)"))

	// Add subcommands
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(delCmd)
}

// setupKVClient initializes the RPC cluster client
func setupKVClient(cmd *cobra.Command, _ []string) error {
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
