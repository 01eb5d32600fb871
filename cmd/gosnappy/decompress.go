package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gosnappy/gosnappy"
)

func newDecompressCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "decompress [file]",
		Short: "Decompress a Snappy framed stream from stdin or a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(args)
			if err != nil {
				return err
			}
			defer closeIn()

			out, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			r := gosnappy.NewReader(in)
			defer r.Close()

			n, err := io.Copy(out, r)
			if err != nil {
				return err
			}
			logrus.WithContext(cmd.Context()).WithField("bytes", n).Debug("decompress: stream drained")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
