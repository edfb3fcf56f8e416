package kv

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/qkv/cmd/util"
	"github.com/ValentinKolb/qkv/lib/command"
	"github.com/ValentinKolb/qkv/lib/kv"
	"github.com/spf13/cobra"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [bucket] [key]",
		Short: "Fetches the value(s) for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := command.NewFetchValue(location(cmd, args[0], args[1]))

			// Only forward the options the user actually set, everything
			// else stays at the server's defaults
			flags := cmd.Flags()
			if flags.Changed("r") {
				q, err := quorumFlag(cmd, "r")
				if err != nil {
					return err
				}
				builder.WithR(q)
			}
			if flags.Changed("pr") {
				q, err := quorumFlag(cmd, "pr")
				if err != nil {
					return err
				}
				builder.WithPR(q)
			}
			if flags.Changed("basic-quorum") {
				v, _ := flags.GetBool("basic-quorum")
				builder.WithBasicQuorum(v)
			}
			if flags.Changed("notfound-ok") {
				v, _ := flags.GetBool("notfound-ok")
				builder.WithNotFoundOK(v)
			}
			if flags.Changed("sloppy-quorum") {
				v, _ := flags.GetBool("sloppy-quorum")
				builder.WithSloppyQuorum(v)
			}
			if flags.Changed("nval") {
				v, _ := flags.GetUint32("nval")
				builder.WithNVal(v)
			}
			if flags.Changed("op-timeout") {
				v, _ := flags.GetDuration("op-timeout")
				builder.WithTimeout(v)
			}
			if flags.Changed("head") {
				v, _ := flags.GetBool("head")
				builder.WithHeadOnly(v)
			}
			if flags.Changed("deleted-vclock") {
				v, _ := flags.GetBool("deleted-vclock")
				builder.WithReturnDeletedVClock(v)
			}
			if flags.Changed("if-modified") {
				v, err := vclockFlag(cmd, "if-modified")
				if err != nil {
					return err
				}
				builder.WithIfModified(v)
			}

			resp, err := builder.Build().Execute(rpcCluster)
			if err != nil {
				return err
			}

			switch {
			case resp.NotFound():
				fmt.Println("not found")
			case resp.Unchanged():
				fmt.Println("unchanged")
			default:
				for i, obj := range resp.Values() {
					if len(resp.Values()) > 1 {
						fmt.Printf("sibling %d:\n", i)
					}
					if obj.ContentType != "" {
						fmt.Printf("content-type=%s\n", obj.ContentType)
					}
					if obj.LastModified != 0 {
						fmt.Printf("last-modified=%s\n", time.UnixMilli(obj.LastModified).Format(time.RFC3339))
					}
					fmt.Printf("value=%s\n", obj.Value)
				}
			}
			if resp.HasVClock() {
				fmt.Printf("vclock=%s\n", resp.VClock())
			}
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [bucket] [key] [value]",
		Short: "Stores a value for a key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			contentType, _ := flags.GetString("content-type")
			obj := kv.Object{
				Value:       []byte(args[2]),
				ContentType: contentType,
			}

			builder := command.NewStoreValue(location(cmd, args[0], args[1]), obj)

			if flags.Changed("w") {
				q, err := quorumFlag(cmd, "w")
				if err != nil {
					return err
				}
				builder.WithW(q)
			}
			if flags.Changed("pw") {
				q, err := quorumFlag(cmd, "pw")
				if err != nil {
					return err
				}
				builder.WithPW(q)
			}
			if flags.Changed("dw") {
				q, err := quorumFlag(cmd, "dw")
				if err != nil {
					return err
				}
				builder.WithDW(q)
			}
			if flags.Changed("nval") {
				v, _ := flags.GetUint32("nval")
				builder.WithNVal(v)
			}
			if flags.Changed("op-timeout") {
				v, _ := flags.GetDuration("op-timeout")
				builder.WithTimeout(v)
			}
			if flags.Changed("sloppy-quorum") {
				v, _ := flags.GetBool("sloppy-quorum")
				builder.WithSloppyQuorum(v)
			}
			if flags.Changed("return-body") {
				v, _ := flags.GetBool("return-body")
				builder.WithReturnBody(v)
			}
			if flags.Changed("if-not-modified") {
				v, _ := flags.GetBool("if-not-modified")
				builder.WithIfNotModified(v)
			}
			if flags.Changed("if-none-match") {
				v, _ := flags.GetBool("if-none-match")
				builder.WithIfNoneMatch(v)
			}
			if flags.Changed("vclock") {
				v, err := vclockFlag(cmd, "vclock")
				if err != nil {
					return err
				}
				builder.WithVClock(v)
			}

			resp, err := builder.Build().Execute(rpcCluster)
			if err != nil {
				return err
			}

			fmt.Println("stored successfully")
			for _, obj := range resp.Values() {
				fmt.Printf("value=%s\n", obj.Value)
			}
			if resp.HasVClock() {
				fmt.Printf("vclock=%s\n", resp.VClock())
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [bucket] [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := command.NewDeleteValue(location(cmd, args[0], args[1]))

			flags := cmd.Flags()
			if flags.Changed("rw") {
				q, err := quorumFlag(cmd, "rw")
				if err != nil {
					return err
				}
				builder.WithRW(q)
			}
			if flags.Changed("w") {
				q, err := quorumFlag(cmd, "w")
				if err != nil {
					return err
				}
				builder.WithW(q)
			}
			if flags.Changed("pw") {
				q, err := quorumFlag(cmd, "pw")
				if err != nil {
					return err
				}
				builder.WithPW(q)
			}
			if flags.Changed("dw") {
				q, err := quorumFlag(cmd, "dw")
				if err != nil {
					return err
				}
				builder.WithDW(q)
			}
			if flags.Changed("nval") {
				v, _ := flags.GetUint32("nval")
				builder.WithNVal(v)
			}
			if flags.Changed("op-timeout") {
				v, _ := flags.GetDuration("op-timeout")
				builder.WithTimeout(v)
			}
			if flags.Changed("sloppy-quorum") {
				v, _ := flags.GetBool("sloppy-quorum")
				builder.WithSloppyQuorum(v)
			}
			if flags.Changed("vclock") {
				v, err := vclockFlag(cmd, "vclock")
				if err != nil {
					return err
				}
				builder.WithVClock(v)
			}

			if err := builder.Build().Execute(rpcCluster); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
)

func init() {
	// get flags
	getCmd.Flags().String("r", "", util.WrapString("Read quorum (count or one, quorum, all, default)"))
	getCmd.Flags().String("pr", "", util.WrapString("Primary read quorum (count or one, quorum, all, default)"))
	getCmd.Flags().Bool("basic-quorum", false, util.WrapString("Short-circuit quorum evaluation on primary failures"))
	getCmd.Flags().Bool("notfound-ok", false, util.WrapString("Count not-found replica responses towards the quorum"))
	getCmd.Flags().Bool("head", false, util.WrapString("Fetch metadata only, omitting the value bodies"))
	getCmd.Flags().Bool("deleted-vclock", false, util.WrapString("Return the version token of a tombstoned record"))
	getCmd.Flags().String("if-modified", "", util.WrapString("Only return the value if it changed since this version token (base64)"))

	// set flags
	setCmd.Flags().String("content-type", "", util.WrapString("Content type of the stored value"))
	setCmd.Flags().String("w", "", util.WrapString("Write quorum (count or one, quorum, all, default)"))
	setCmd.Flags().String("pw", "", util.WrapString("Primary write quorum (count or one, quorum, all, default)"))
	setCmd.Flags().String("dw", "", util.WrapString("Durable write quorum (count or one, quorum, all, default)"))
	setCmd.Flags().Bool("return-body", false, util.WrapString("Return the stored object(s) in the response"))
	setCmd.Flags().Bool("if-not-modified", false, util.WrapString("Only write if the supplied vclock matches the server-side token"))
	setCmd.Flags().Bool("if-none-match", false, util.WrapString("Only write if the record does not exist yet"))
	setCmd.Flags().String("vclock", "", util.WrapString("Causal context of the value being updated (base64)"))

	// del flags
	delCmd.Flags().String("rw", "", util.WrapString("Delete quorum (count or one, quorum, all, default)"))
	delCmd.Flags().String("w", "", util.WrapString("Write quorum (count or one, quorum, all, default)"))
	delCmd.Flags().String("pw", "", util.WrapString("Primary write quorum (count or one, quorum, all, default)"))
	delCmd.Flags().String("dw", "", util.WrapString("Durable write quorum (count or one, quorum, all, default)"))
	delCmd.Flags().String("vclock", "", util.WrapString("Causal context of the value being deleted (base64)"))

	// shared option flags
	for _, cmd := range []*cobra.Command{getCmd, setCmd, delCmd} {
		cmd.Flags().Bool("sloppy-quorum", false, util.WrapString("Allow fallback nodes to satisfy the quorum"))
		cmd.Flags().Uint32("nval", 0, util.WrapString("Replication factor override for this request"))
		cmd.Flags().Duration("op-timeout", 0, util.WrapString("Per-request timeout forwarded to the cluster (e.g. 500ms)"))
	}
}

// location builds the addressed location from the namespace flag and args
func location(cmd *cobra.Command, bucket, key string) kv.Location {
	namespace, _ := cmd.Flags().GetString("namespace")
	if namespace == "" {
		return kv.NewLocation(bucket, key)
	}
	return kv.NewLocationWithNamespace(namespace, bucket, key)
}

// quorumFlag parses a quorum flag value
func quorumFlag(cmd *cobra.Command, name string) (kv.Quorum, error) {
	s, _ := cmd.Flags().GetString(name)
	return kv.ParseQuorum(s)
}

// vclockFlag parses a base64 version token flag value
func vclockFlag(cmd *cobra.Command, name string) (kv.VClock, error) {
	s, _ := cmd.Flags().GetString(name)
	v, err := kv.ParseVClock(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
