package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/store"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write queue configuration",
	}
	cmd.AddCommand(configGetCommand(), configSetCommand(), configShowCommand())
	return cmd
}

func configGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a config key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := store.NewConfig(db).Get(ctx, args[0])
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is unset\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), *v)
			return nil
		},
	}
}

func configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.NewConfig(db).Set(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every configuration key/value pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			all, err := store.NewConfig(db).All(ctx)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, all[k])
			}
			return nil
		},
	}
}
