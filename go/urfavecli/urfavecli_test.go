package urfavecli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"

	"go.skia.org/lambent/go/sklog/sklogimpl"
	"go.skia.org/lambent/go/sklog/stdlogging"
)

type fauxSyncWriter struct {
	b bytes.Buffer
}

func (f *fauxSyncWriter) Write(p []byte) (n int, err error) {
	return f.b.Write(p)
}

func (f *fauxSyncWriter) Sync() error {
	return nil
}

func TestLogFlags(t *testing.T) {
	logsBuffer := &fauxSyncWriter{}
	sklogimpl.SetLogger(stdlogging.New(logsBuffer))
	defer sklogimpl.SetLogger(stdlogging.New(&fauxSyncWriter{}))

	app := &cli.App{
		Name: "testapp",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose"},
		},
		Commands: []*cli.Command{
			{
				Name: "run",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "result", Value: "result"},
					&cli.BoolFlag{Name: "no_builtins"},
					&cli.IntFlag{Name: "max_stack_depth"},
					&cli.DurationFlag{Name: "timeout"},
				},
				Action: func(c *cli.Context) error {
					LogFlags(c)
					return nil
				},
			},
		},
	}

	// Don't print anything on stderr/stdout.
	oldHelpPrinter := cli.HelpPrinter
	cli.HelpPrinter = func(_ io.Writer, _ string, _ interface{}) {}
	defer func() {
		cli.HelpPrinter = oldHelpPrinter
	}()

	err := app.Run([]string{
		"testapp",
		"--verbose",
		"run",
		"--result=answer",
		"--max_stack_depth=64",
		"--timeout=24s",
	})
	require.NoError(t, err)

	flagLines := []string{}
	for _, line := range strings.Split(logsBuffer.b.String(), "\n") {
		// The help flag is added by cli.App itself.
		if strings.Contains(line, "Flags:") && !strings.Contains(line, "--help=") {
			// Strip off everything before Flags: which contains timestamps and
			// other stuff that changes.
			flagLines = append(flagLines, strings.Split(line, "Flags:")[1])
		}
	}

	require.Equal(t, []string{
		" --verbose=true",
		" --result=answer",
		" --no_builtins=false",
		" --max_stack_depth=64",
		" --timeout=24s",
	}, flagLines)
}
