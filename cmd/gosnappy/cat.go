package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gosnappy/gosnappy"
)

// newCatCmd decompresses one or more Snappy-framed files to stdout,
// concatenating their decoded content in argument order. Unlike decompress,
// it reads through Reader.ReadContext so cmd.Context() cancellation (from
// the process's SIGINT/SIGTERM handler) is honored mid-stream.
func newCatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat file...",
		Short: "Decompress one or more Snappy streams to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			buf := make([]byte, 64*1024)
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				if err := catOne(ctx, f, buf); err != nil {
					f.Close()
					return fmt.Errorf("%s: %w", path, err)
				}
				f.Close()
			}
			return nil
		},
	}
	return cmd
}

func catOne(ctx context.Context, f *os.File, buf []byte) error {
	r := gosnappy.NewReader(f)
	defer r.Close()
	for {
		n, err := r.ReadContext(ctx, buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
