package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/blockzap/internal/output"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List attribute categories and their keys",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().String("format", "", "write as json or yaml instead of a list")
}

func runCategories(cmd *cobra.Command, _ []string) error {
	initLogger()

	z, err := newZapper()
	if err != nil {
		return err
	}
	infos := z.Taxonomy().Describe()

	if formatName, _ := cmd.Flags().GetString("format"); formatName != "" {
		format, err := output.ParseFormat(formatName)
		if err != nil {
			return err
		}
		return output.WriteOne(cmd.OutOrStdout(), format, infos)
	}

	out := cmd.OutOrStdout()
	for _, info := range infos {
		marker := " "
		if !info.Removable {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-18s %s\n", marker, info.Name, info.Title)
		fmt.Fprintf(out, "    %s\n", strings.Join(info.Keys, ", "))
	}
	fmt.Fprintln(out, "\n* always kept (media: unless --keep-media=false)")
	return nil
}
