package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rbtoolkit/rbdb/internal/rberr"
	"github.com/rbtoolkit/rbdb/internal/rblog"
	"github.com/rbtoolkit/rbdb/pkg/common"
	"github.com/rbtoolkit/rbdb/pkg/setting"
)

var settingFormat string

var dumpSettingCmd = &cobra.Command{
	Use:   "dump-setting <MYSETTING.DAT>",
	Short: "Parse and print a device setting file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenFile, err)
		}
		defer f.Close()

		file, err := setting.ReadFile(f)
		var crcErr *rberr.ChecksumError
		if err != nil && !errors.As(err, &crcErr) {
			return err
		}
		if crcErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", crcErr)
		}
		rblog.Debug("decoded setting file %s", args[0])

		if settingFormat == "yaml" {
			out, marshalErr := yaml.Marshal(file)
			if marshalErr != nil {
				return marshalErr
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), file.String())
		return nil
	},
}

func init() {
	dumpSettingCmd.Flags().StringVar(&settingFormat, "format", "text", "output format: text or yaml")
	rootCmd.AddCommand(dumpSettingCmd)
}
