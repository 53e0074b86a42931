package cmd

import (
	"encoding/json"
	"fmt"

	"dms-storage/core/storage"

	"github.com/spf13/cobra"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage storage buckets",
}

var bucketNameCmd = &cobra.Command{
	Use:   "name <storage>",
	Short: "Print the bucket name derived from a storage name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		prefix, _ := cmd.Flags().GetString("prefix")
		fmt.Fprintln(cmd.OutOrStdout(), storage.BucketName(rt.resolver, args[0], prefix))
		return nil
	},
}

var bucketExistsCmd = &cobra.Command{
	Use:   "exists <bucket>",
	Short: "Print whether a bucket exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		conn, err := rt.connect(cmd.Context())
		if err != nil {
			return err
		}
		state, err := conn.BucketState(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), state)
		return nil
	},
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create <bucket>",
	Short: "Create a bucket in the configured region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		conn, err := rt.connect(cmd.Context())
		if err != nil {
			return err
		}
		info, err := conn.CreateBucket(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete <bucket>",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		conn, err := rt.connect(cmd.Context())
		if err != nil {
			return err
		}
		return conn.DeleteBucket(cmd.Context(), args[0])
	},
}

func init() {
	bucketNameCmd.Flags().String("prefix", "", "bucket prefix (defaults to aws_bucket_prefix)")

	bucketCmd.AddCommand(bucketNameCmd, bucketExistsCmd, bucketCreateCmd, bucketDeleteCmd)
	RootCmd.AddCommand(bucketCmd)
}
