package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gosnappy",
		Short:         "Compress and decompress Snappy framed streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	addCommonFlags(root.PersistentFlags())

	root.AddCommand(newCompressCmd())
	root.AddCommand(newDecompressCmd())
	root.AddCommand(newCatCmd())
	return root
}

// addCommonFlags registers the flags shared by every subcommand onto fs.
// newRootCmd calls it on the root's persistent flags, and cobra's
// persistent-flag inheritance makes both `gosnappy compress -v` and
// `gosnappy -v compress` work.
func addCommonFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
