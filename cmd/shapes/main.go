// Command shapes parses shape documents and prints the resulting tree.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/uplang/shapes"
)

const (
	exitOK = 0
	// exitParse covers every input failure: a file that cannot be opened
	// or read, a document that does not decode, or a parse error.
	exitParse = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)
	err := app.Run(args)
	if err == nil {
		return exitOK
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintln(stderr, err)
	return exitUsage
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "shapes",
		Usage:     "parse nested square and circle documents",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level: debug, info, warn, error",
				EnvVars: []string{"SHAPES_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "log output format: text or json",
				EnvVars: []string{"SHAPES_LOG_FORMAT"},
			},
		},
		Before: func(cCtx *cli.Context) error {
			logger, err := newLogger(stderr, cCtx.String("log-level"), cCtx.String("log-format"))
			if err != nil {
				return cli.Exit(err.Error(), exitUsage)
			}
			cCtx.App.Metadata["logger"] = logger
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "parse a document and print the tree (flags go before FILE)",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "outline",
						Usage:   "output format: text, outline, json, yaml",
						EnvVars: []string{"SHAPES_FORMAT"},
					},
					&cli.StringFlag{
						Name:  "from",
						Value: "text",
						Usage: "input format: text, json, yaml",
					},
				},
				Action: parseAction,
			},
			{
				Name:      "check",
				Usage:     "validate documents without printing them",
				ArgsUsage: "[FILE...]",
				Action:    checkAction,
			},
		},
		ExitErrHandler: func(*cli.Context, error) {},
		Metadata:       map[string]interface{}{},
	}
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

func loggerFrom(cCtx *cli.Context) *slog.Logger {
	if logger, ok := cCtx.App.Metadata["logger"].(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseAction(cCtx *cli.Context) error {
	if cCtx.NArg() > 1 {
		for _, arg := range cCtx.Args().Tail() {
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return cli.Exit(fmt.Sprintf("flag %s must come before FILE", arg), exitUsage)
			}
		}
		return cli.Exit("parse takes at most one file", exitUsage)
	}
	logger := loggerFrom(cCtx)
	name := cCtx.Args().First()

	r, closeFn, err := openInput(cCtx.App.Reader, name)
	if err != nil {
		return cli.Exit(err.Error(), exitParse)
	}
	defer closeFn()

	var container *shapes.Container
	switch from := cCtx.String("from"); from {
	case "text":
		var text string
		if text, err = readDocument(r); err == nil {
			container, err = shapes.NewParser(shapes.WithLogger(logger)).Parse(text)
		}
	case "json":
		container, err = shapes.DecodeJSON(r)
	case "yaml":
		container, err = shapes.DecodeYAML(r)
	default:
		return cli.Exit(fmt.Sprintf("unknown input format %q", from), exitUsage)
	}
	if err != nil {
		logger.Debug("parse failed", "input", displayName(name), "error", err)
		return cli.Exit(fmt.Sprintf("%s: %v", displayName(name), err), exitParse)
	}

	out := cCtx.App.Writer
	switch format := cCtx.String("format"); format {
	case "text":
		_, err = fmt.Fprintln(out, container.String())
	case "outline":
		err = shapes.Outline(out, container)
	case "json":
		err = shapes.EncodeJSON(out, container, true)
	case "yaml":
		err = shapes.EncodeYAML(out, container)
	default:
		return cli.Exit(fmt.Sprintf("unknown output format %q", format), exitUsage)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("write output: %v", err), exitParse)
	}
	return nil
}

func checkAction(cCtx *cli.Context) error {
	logger := loggerFrom(cCtx)
	parser := shapes.NewParser(shapes.WithLogger(logger))

	names := cCtx.Args().Slice()
	if len(names) == 0 {
		names = []string{"-"}
	}

	failed := 0
	for _, name := range names {
		if err := checkOne(parser, cCtx.App.Reader, name); err != nil {
			failed++
			fmt.Fprintf(cCtx.App.Writer, "%s: %v\n", displayName(name), err)
			continue
		}
		fmt.Fprintf(cCtx.App.Writer, "%s: ok\n", displayName(name))
	}

	logger.Info("check finished", "inputs", len(names), "failed", failed)
	if failed > 0 {
		return cli.Exit("", exitParse)
	}
	return nil
}

func checkOne(parser *shapes.Parser, stdin io.Reader, name string) error {
	r, closeFn, err := openInput(stdin, name)
	if err != nil {
		return err
	}
	defer closeFn()
	text, err := readDocument(r)
	if err != nil {
		return err
	}
	_, err = parser.Parse(text)
	return err
}

// readDocument reads all of r. A trailing line ending is dropped so that
// files saved by editors parse; any other whitespace is a parse error.
func readDocument(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

// openInput opens name, or returns stdin for "" and "-".
func openInput(stdin io.Reader, name string) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func displayName(name string) string {
	if name == "" || name == "-" {
		return "<stdin>"
	}
	return name
}
