// Package flagx contains small helpers around spf13/pflag for components
// that parse only the flags they own out of a shared argument list.
package flagx

import (
	"io"

	"github.com/spf13/pflag"
)

// NewFlagSet returns a silent ContinueOnError flag set that skips flags it
// does not define, so several components can parse the same os.Args.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	return fs
}

// ConfigFilePath extracts the JSON config path given via -c or --config.
// It returns "" when neither is present.
func ConfigFilePath(args []string) string {
	var path string

	fs := NewFlagSet("json")
	fs.StringVarP(&path, "config", "c", "", "path to JSON config file")
	_ = fs.Parse(args)

	return path
}
