package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/cafebabe/classfile"
	"github.com/dhamidi/cafebabe/format"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string
	var validate bool

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the header and constant pool of a .class file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(dumpFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var opts []classfile.Option
			if validate {
				opts = append(opts, classfile.WithValidation())
			}
			cf, err := classfile.ParseFile(args[0], opts...)
			if err != nil {
				return fmt.Errorf("parse class file: %w", err)
			}

			if err := enc.Encode(cf); err != nil {
				return fmt.Errorf("encode %s: %w", dumpFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().BoolVar(&validate, "validate", false, "check constant pool cross references before printing")

	return cmd
}
