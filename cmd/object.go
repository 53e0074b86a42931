package cmd

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Manage objects within a bucket",
}

var objectListCmd = &cobra.Command{
	Use:   "ls <bucket>",
	Short: "List every key in a bucket",
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

		out := bufio.NewWriter(cmd.OutOrStdout())
		defer out.Flush()
		for key, err := range conn.Keys(cmd.Context(), args[0]) {
			if err != nil {
				return err
			}
			fmt.Fprintln(out, key)
		}
		return nil
	},
}

var objectPutCmd = &cobra.Command{
	Use:   "put <bucket> <key> [file|-]",
	Short: "Upload a file (or stdin) to a key",
	Args:  cobra.RangeArgs(2, 3),
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

		var r io.Reader = cmd.InOrStdin()
		if len(args) == 3 && args[2] != "-" {
			f, err := os.Open(args[2])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		if err := conn.Upload(cmd.Context(), r, args[0], args[1]); err != nil {
			return err
		}
		rt.logger.Info("Object uploaded", zap.String("bucket", args[0]), zap.String("key", args[1]))
		return nil
	},
}

var objectGetCmd = &cobra.Command{
	Use:   "get <bucket> <key> [file|-]",
	Short: "Download a key to a file (or stdout)",
	Args:  cobra.RangeArgs(2, 3),
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

		if len(args) < 3 || args[2] == "-" {
			return conn.Download(cmd.Context(), args[0], args[1], cmd.OutOrStdout())
		}

		f, err := os.Create(args[2])
		if err != nil {
			return err
		}
		if err := conn.Download(cmd.Context(), args[0], args[1], f); err != nil {
			f.Close()
			os.Remove(args[2])
			return err
		}
		return f.Close()
	},
}

var objectRemoveCmd = &cobra.Command{
	Use:   "rm <bucket> [key...]",
	Short: "Delete keys in chunks of 1000",
	Long:  `Deletes the given keys. With --stdin, keys are also read one per line from standard input.`,
	Args:  cobra.MinimumNArgs(1),
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

		keys := slices.Values(args[1:])
		scanErr := func() error { return nil }
		if fromStdin, _ := cmd.Flags().GetBool("stdin"); fromStdin {
			var stdinKeys iter.Seq[string]
			stdinKeys, scanErr = scanKeys(cmd.InOrStdin())
			keys = concat(keys, stdinKeys)
		}

		if err := conn.DeleteObjects(cmd.Context(), args[0], keys); err != nil {
			return err
		}
		return scanErr()
	},
}

// scanKeys yields one key per non-blank line of r. The returned func reports
// the read error, if any, once the sequence is exhausted.
func scanKeys(r io.Reader) (iter.Seq[string], func() error) {
	sc := bufio.NewScanner(r)
	seq := func(yield func(string) bool) {
		for sc.Scan() {
			key := strings.TrimSpace(sc.Text())
			if key == "" {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
	return seq, sc.Err
}

func concat(seqs ...iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, seq := range seqs {
			for v := range seq {
				if !yield(v) {
					return
				}
			}
		}
	}
}

func init() {
	objectRemoveCmd.Flags().Bool("stdin", false, "read additional keys from stdin, one per line")

	objectCmd.AddCommand(objectListCmd, objectPutCmd, objectGetCmd, objectRemoveCmd)
	RootCmd.AddCommand(objectCmd)
}
