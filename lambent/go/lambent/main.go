// The lambent command runs, inspects and serves lambent programs.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/hako/durafmt"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"go.skia.org/lambent/go/skerr"
	"go.skia.org/lambent/go/sklog"
	"go.skia.org/lambent/go/sklog/sklogimpl"
	"go.skia.org/lambent/go/sklog/stdlogging"
	"go.skia.org/lambent/go/urfavecli"
	"go.skia.org/lambent/go/util"
	"go.skia.org/lambent/lambent/go/builtins"
	"go.skia.org/lambent/lambent/go/config"
	"go.skia.org/lambent/lambent/go/interp"
	"go.skia.org/lambent/lambent/go/lexer"
	"go.skia.org/lambent/lambent/go/parser"
	"go.skia.org/lambent/lambent/go/playground"
	"go.skia.org/lambent/lambent/go/repl"
)

// runFlags are the flags of the run command.
type runFlags struct {
	ConfigFilename string
	ResultBinding  string
	MaxStackDepth  int
	NoBuiltins     bool
	Verbose        bool
}

func (flags *runFlags) AsCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Destination: &flags.ConfigFilename,
			Name:        "config",
			Value:       "",
			Usage:       "Optional JSON5 interpreter config file.",
		},
		&cli.StringFlag{
			Destination: &flags.ResultBinding,
			Name:        "result",
			Value:       "",
			Usage:       "Name of the binding to print. Overrides the config file, defaults to \"result\".",
		},
		&cli.IntFlag{
			Destination: &flags.MaxStackDepth,
			Name:        "max_stack_depth",
			Value:       0,
			Usage:       "Maximum evaluator stack depth. 0 uses the config file or the evaluator's default.",
		},
		&cli.BoolFlag{
			Destination: &flags.NoBuiltins,
			Name:        "no_builtins",
			Value:       false,
			Usage:       "Do not load the builtin definitions.",
		},
		&cli.BoolFlag{
			Destination: &flags.Verbose,
			Name:        "verbose",
			Value:       false,
			Usage:       "Log debug output and run statistics. Same as the global --verbose.",
		},
	}
}

// interpreterConfig loads the config file, if any, and applies the flags on
// top of it.
func (flags *runFlags) interpreterConfig() (config.InterpreterConfig, error) {
	cfg := config.DefaultInterpreterConfig()
	if flags.ConfigFilename != "" {
		if err := config.LoadFromJSON5(&cfg, flags.ConfigFilename); err != nil {
			return cfg, err
		}
	}
	if flags.ResultBinding != "" {
		cfg.ResultBinding = flags.ResultBinding
	}
	if flags.MaxStackDepth > 0 {
		cfg.MaxStackDepth = flags.MaxStackDepth
	}
	if flags.NoBuiltins {
		cfg.NoBuiltins = true
	}
	return cfg, nil
}

// serveFlags are the flags of the serve command.
type serveFlags struct {
	ConfigFilename string
	Port           string
}

func (flags *serveFlags) AsCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Destination: &flags.ConfigFilename,
			Name:        "config",
			Value:       "",
			Usage:       "Optional JSON5 playground config file.",
		},
		&cli.StringFlag{
			Destination: &flags.Port,
			Name:        "port",
			Value:       "",
			Usage:       "HTTP service port (e.g., ':8000'). Overrides the config file.",
		},
	}
}

func readSource(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", skerr.Fmt("expected exactly one source file, got %d arguments", c.NArg())
	}
	return readFile(c.Args().First())
}

func readFile(filename string) (string, error) {
	var src string
	err := util.WithReadFile(filename, func(r io.Reader) error {
		b, err := io.ReadAll(r)
		src = string(b)
		return err
	})
	if err != nil {
		return "", skerr.Wrapf(err, "reading %s", filename)
	}
	return src, nil
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var rFlags runFlags
	var sFlags serveFlags
	var verbose bool
	// enableVerbose handles --verbose given after a command name.
	enableVerbose := func() {
		if !verbose {
			verbose = true
			sklogimpl.SetLogger(stdlogging.New(os.Stderr))
		}
	}

	return &cli.App{
		Name:      "lambent",
		Usage:     "Run, inspect and serve programs written in the lambent lambda calculus.",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Destination: &verbose,
				Name:        "verbose",
				Usage:       "Log debug output and run statistics.",
			},
		},
		Before: func(c *cli.Context) error {
			// Log to stderr so that stdout only holds results.
			if verbose {
				sklogimpl.SetLogger(stdlogging.New(os.Stderr))
			} else {
				sklogimpl.SetLogger(stdlogging.NewQuiet(os.Stderr))
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a program and print its result.",
				ArgsUsage: "<file>",
				Flags:     (&rFlags).AsCliFlags(),
				Action: func(c *cli.Context) error {
					if rFlags.Verbose {
						enableVerbose()
					}
					urfavecli.LogFlags(c)
					src, err := readSource(c)
					if err != nil {
						return err
					}
					cfg, err := rFlags.interpreterConfig()
					if err != nil {
						return err
					}
					i, err := interp.New(cfg)
					if err != nil {
						return err
					}
					res, err := i.Run(c.Context, src)
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, res.Value)
					if verbose {
						fmt.Fprintf(stderr, "%s statements, %s steps, %s globals in %s\n",
							humanize.Comma(int64(res.Statements)),
							humanize.Comma(res.Steps),
							humanize.Comma(int64(res.Globals.Len())),
							durafmt.Parse(res.Duration))
					}
					return nil
				},
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of a program.",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					i, err := interp.New(config.DefaultInterpreterConfig())
					if err != nil {
						return err
					}
					tree, err := i.Visualize(src)
					if err != nil {
						return err
					}
					fmt.Fprint(stdout, tree)
					return nil
				},
			},
			{
				Name:      "tokens",
				Usage:     "Print the tokens of a program, one per line.",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					toks, err := lexer.Lex(src)
					if err != nil {
						return err
					}
					for _, tok := range toks {
						fmt.Fprintf(stdout, "%d\t%s\n", tok.Line, tok)
					}
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "Parse programs without running them and report the result of each.",
				ArgsUsage: "<file> [<file>...]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return skerr.Fmt("expected at least one source file")
					}
					return checkFiles(stdout, c.Args().Slice())
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive session.",
				Flags: (&rFlags).AsCliFlags(),
				Action: func(c *cli.Context) error {
					if rFlags.Verbose {
						enableVerbose()
					}
					urfavecli.LogFlags(c)
					cfg, err := rFlags.interpreterConfig()
					if err != nil {
						return err
					}
					session, err := repl.New(c.Context, cfg)
					if err != nil {
						return err
					}
					return runRepl(c, session, stdout)
				},
			},
			{
				Name:  "builtins",
				Usage: "Print the builtin definitions.",
				Action: func(c *cli.Context) error {
					fmt.Fprint(stdout, builtins.Source())
					return nil
				},
			},
			{
				Name:  "serve",
				Usage: "Run the playground HTTP server.",
				Flags: (&sFlags).AsCliFlags(),
				Action: func(c *cli.Context) error {
					urfavecli.LogFlags(c)
					cfg := config.DefaultPlaygroundConfig()
					if sFlags.ConfigFilename != "" {
						if err := config.LoadFromJSON5(&cfg, sFlags.ConfigFilename); err != nil {
							return err
						}
					}
					if sFlags.Port != "" {
						cfg.Port = sFlags.Port
					}
					h, err := playground.New(cfg)
					if err != nil {
						return err
					}
					sklog.Infof("Ready to serve on http://localhost%s", cfg.Port)
					return http.ListenAndServe(cfg.Port, h)
				},
			},
		},
	}
}

const historyFile = ".lambent_history"

// runRepl runs session on the terminal with line editing and history.
func runRepl(c *cli.Context, session *repl.Session, stdout io.Writer) error {
	ln := liner.NewLiner()
	defer util.Close(ln)
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if err := util.WithReadFile(histPath, func(r io.Reader) error {
			_, err := ln.ReadHistory(r)
			return err
		}); err != nil && !os.IsNotExist(err) {
			sklog.Warningf("Failed to read history from %s: %s", histPath, err)
		}
	}

	fmt.Fprintln(stdout, "lambent. Type :help for help.")
	if err := session.Loop(c.Context, ln, stdout); err != nil {
		return err
	}

	if histPath != "" {
		f, err := os.Create(histPath)
		if err != nil {
			sklog.Warningf("Failed to save history: %s", err)
			return nil
		}
		defer util.Close(f)
		if _, err := ln.WriteHistory(f); err != nil {
			sklog.Warningf("Failed to save history: %s", err)
		}
	}
	return nil
}

// checkResult is the outcome of parsing a single file.
type checkResult struct {
	statements int
	err        error
}

// checkFiles lexes and parses every file concurrently and prints a table with
// one row per file. It returns an error if any file failed.
func checkFiles(w io.Writer, filenames []string) error {
	results := make([]checkResult, len(filenames))
	var egroup errgroup.Group
	for i, filename := range filenames {
		i, filename := i, filename
		egroup.Go(func() error {
			src, err := readFile(filename)
			if err != nil {
				return err
			}
			toks, err := lexer.Lex(src)
			if err != nil {
				results[i].err = err
				return nil
			}
			prog, err := parser.ParseProgram(toks)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].statements = len(prog.Statements)
			return nil
		})
	}
	if err := egroup.Wait(); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Statements", "Status"})
	table.SetAutoWrapText(false)
	failed := 0
	for i, filename := range filenames {
		status := "ok"
		if results[i].err != nil {
			status = interp.ErrorMessage(results[i].err)
			failed++
		}
		table.Append([]string{filename, humanize.Comma(int64(results[i].statements)), status})
	}
	table.Render()
	if failed > 0 {
		return skerr.Fmt("%d of %d files failed to parse", failed, len(filenames))
	}
	return nil
}

// reportError prints err in red without skerr's call stacks.
func reportError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	_, _ = red.Fprintf(w, "Error: %s\n", interp.ErrorMessage(err))
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		sklog.Debugf("Command failed: %s", err)
		reportError(os.Stderr, err)
		sklog.Flush()
		os.Exit(1)
	}
}
