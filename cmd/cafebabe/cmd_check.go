package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/cafebabe/classfile"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("check failed")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Decode and validate class files, reporting every problem",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if !checkFile(cmd.OutOrStdout(), path) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errCheckFailed, failed, len(args))
			}
			return nil
		},
	}
}

// checkFile prints "path: ok" or one line per problem and reports whether
// the file passed.
func checkFile(w io.Writer, path string) bool {
	cf, err := classfile.ParseFile(path)
	if err != nil {
		fmt.Fprintf(w, "%s: %s\n", path, err)
		return false
	}

	err = classfile.Validate(cf)
	if err == nil {
		fmt.Fprintf(w, "%s: ok\n", path)
		return true
	}

	var verrs classfile.ValidationErrors
	if !errors.As(err, &verrs) {
		fmt.Fprintf(w, "%s: %s\n", path, err)
		return false
	}
	for _, e := range verrs {
		fmt.Fprintf(w, "%s: %s\n", path, e)
	}
	return false
}
