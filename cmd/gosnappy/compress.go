package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gosnappy/gosnappy"
)

func newCompressCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "compress [file]",
		Short: "Compress stdin or a file to a Snappy framed stream",
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

			w := gosnappy.NewBufferedWriter(out)
			if _, err := io.Copy(w, in); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			logrus.WithContext(cmd.Context()).Debug("compress: stream closed")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
