package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rbtoolkit/rbdb/internal/rblog"
	"github.com/rbtoolkit/rbdb/pkg/common"
	"github.com/rbtoolkit/rbdb/pkg/pdb"
)

var pdbFormat string

var dumpPDBCmd = &cobra.Command{
	Use:   "dump-pdb <export.pdb>",
	Short: "Parse and print a PDB database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenFile, err)
		}
		defer f.Close()

		file, err := pdb.Decode(f)
		if err != nil {
			return err
		}
		rblog.Debug("decoded %d tables from %s", len(file.Tables), args[0])

		if pdbFormat == "yaml" {
			out, err := yaml.Marshal(file)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		}

		for _, t := range file.Tables {
			rowCount := 0
			for i, p := range t.Pages {
				if !p.Valid {
					rblog.Warn("table %s: page %d marked invalid, skipping", t.Descriptor.PageType, i)
					continue
				}
				for _, slot := range p.Slots {
					if slot.Present {
						rowCount++
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table %-18s pages=%-4d rows=%d\n",
				t.Descriptor.PageType, len(t.Pages), rowCount)
		}
		return nil
	},
}

var listPlaylistsCmd = &cobra.Command{
	Use:   "list-playlists <export.pdb>",
	Short: "Print the playlist folder tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenFile, err)
		}
		defer f.Close()

		file, err := pdb.Decode(f)
		if err != nil {
			return err
		}

		nodes := collectPlaylistNodes(file)
		printPlaylistTree(cmd, nodes, 0, 0)
		return nil
	},
}

func collectPlaylistNodes(file *pdb.File) []*pdb.PlaylistTreeNodeRow {
	var nodes []*pdb.PlaylistTreeNodeRow
	for _, t := range file.Tables {
		if t.Descriptor.PageType != pdb.PageTypePlaylistTree {
			continue
		}
		for _, p := range t.Pages {
			if !p.Valid {
				continue
			}
			for _, slot := range p.Slots {
				if !slot.Present {
					continue
				}
				if n, ok := slot.Row.(*pdb.PlaylistTreeNodeRow); ok {
					nodes = append(nodes, n)
				}
			}
		}
	}
	return nodes
}

func printPlaylistTree(cmd *cobra.Command, nodes []*pdb.PlaylistTreeNodeRow, parentID uint32, depth int) {
	for _, n := range nodes {
		if n.ParentID != parentID {
			continue
		}
		label := "?"
		if n.Name != nil {
			label = n.Name.Text
		}
		kind := "playlist"
		if n.IsFolder {
			kind = "folder"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s- [%s] %s\n", indent(depth), kind, label)
		if n.IsFolder {
			printPlaylistTree(cmd, nodes, n.ID, depth+1)
		}
	}
}

func indent(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func init() {
	dumpPDBCmd.Flags().StringVar(&pdbFormat, "format", "text", "output format: text or yaml")
	rootCmd.AddCommand(dumpPDBCmd)
	rootCmd.AddCommand(listPlaylistsCmd)
}
