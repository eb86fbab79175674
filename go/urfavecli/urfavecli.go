// Package urfavecli holds helpers for apps built on github.com/urfave/cli/v2.
package urfavecli

import (
	cli "github.com/urfave/cli/v2"

	"go.skia.org/lambent/go/sklog"
)

// LogFlags logs the value of every flag of the app and of the running
// command, one per line, so that logs record how a command was invoked.
func LogFlags(c *cli.Context) {
	flags := []cli.Flag{}
	if c.App != nil {
		flags = append(flags, c.App.Flags...)
	}
	if c.Command != nil {
		flags = append(flags, c.Command.Flags...)
	}
	seen := map[string]bool{}
	for _, f := range flags {
		names := f.Names()
		if len(names) == 0 || seen[names[0]] {
			continue
		}
		name := names[0]
		seen[name] = true
		sklog.Infof("Flags: --%s=%v", name, c.Value(name))
	}
}
