package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/savekit/pkg/savedata"
)

var flagCmd = &cobra.Command{
	Use:   "flag",
	Short: "Read or change header flags",
}

var flagListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "Print every header flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openSave(cmd, args[0])
		if err != nil {
			return err
		}
		for _, fl := range savedata.AllFlags {
			fmt.Fprintf(cmd.OutOrStdout(), "%-15s %t\n", fl, f.Data.IsFlagSet(fl))
		}
		return nil
	},
}

var flagGetCmd = &cobra.Command{
	Use:   "get <file> <flag>",
	Short: "Print one header flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fl, err := savedata.ParseSaveFlag(args[1])
		if err != nil {
			return err
		}
		f, err := openSave(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), f.Data.IsFlagSet(fl))
		return nil
	},
}

var flagSetCmd = &cobra.Command{
	Use:   "set <file> <flag> <true|false>",
	Short: "Change one header flag and write the save back",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fl, err := savedata.ParseSaveFlag(args[1])
		if err != nil {
			return err
		}
		v, err := strconv.ParseBool(args[2])
		if err != nil {
			return fmt.Errorf("flag value: %w", err)
		}
		f, err := openSave(cmd, args[0])
		if err != nil {
			return err
		}
		if f.Data.IsFlagSet(fl) == v {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already %t\n", fl, v)
			return nil
		}
		f.Data.SetFlag(fl, v)
		if err := f.Save(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %t\n", fl, v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flagCmd)
	flagCmd.AddCommand(flagListCmd, flagGetCmd, flagSetCmd)
}
