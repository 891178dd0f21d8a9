package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rbtoolkit/rbdb/internal/rblog"
	"github.com/rbtoolkit/rbdb/pkg/anlz"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

var anlzFormat string

var dumpAnlzCmd = &cobra.Command{
	Use:   "dump-anlz <ANLZ0000.DAT>",
	Short: "Parse and print an analysis file's sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenFile, err)
		}
		defer f.Close()

		file, err := anlz.Decode(f)
		if err != nil {
			return err
		}
		rblog.Debug("decoded %d sections from %s", len(file.Sections), args[0])

		if anlzFormat == "yaml" {
			out, err := yaml.Marshal(file)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		}

		for _, s := range file.Sections {
			fmt.Fprintf(cmd.OutOrStdout(), "section %-8s len=%d\n", s.Magic, s.TotalLen)
		}
		return nil
	},
}

func init() {
	dumpAnlzCmd.Flags().StringVar(&anlzFormat, "format", "text", "output format: text or yaml")
	rootCmd.AddCommand(dumpAnlzCmd)
}
