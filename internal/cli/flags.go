package cli

import (
	"flag"
	"fmt"
	"io"
)

// newFlagSet creates a flag set that never writes parse errors to stderr.
// Commands decide how to surface parse failures in human/JSON modes.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// flagWasSet reports whether name was given on the command line.
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// requireFlags returns an error naming the first flag in names that was not set.
func requireFlags(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		if !flagWasSet(fs, name) {
			return fmt.Errorf("--%s is required", name)
		}
	}
	return nil
}

// rejectPositional fails when a flag set left positional arguments behind.
func rejectPositional(fs *flag.FlagSet) error {
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return nil
}
