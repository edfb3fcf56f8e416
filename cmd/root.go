package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/qkv/cmd/kv"
	"github.com/ValentinKolb/qkv/cmd/search"
	"github.com/ValentinKolb/qkv/cmd/serve"
	"github.com/ValentinKolb/qkv/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "qkv",
		Short: "quorum-replicated key-value store",
		Long: fmt.Sprintf(`qkv (v%s)

A quorum-replicated, versioned key-value store written in Go. Values are
addressed by namespace/bucket/key, carry opaque version tokens and may
resolve to multiple siblings under concurrent writes.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of qkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qkv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(search.SearchCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
