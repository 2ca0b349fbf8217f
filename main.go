package main

import (
	"context"
	"fmt"
	"os"

	"reckon/config"
	"reckon/server"
	"reckon/sheet"
	"reckon/tui"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help", "help":
			usage()
			return
		case "serve":
			os.Exit(serveCommand(args[1:]))
		case "view":
			args = args[1:]
		}
	}
	os.Exit(viewCommand(args))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  reckon [view] [--json-file <path>] [--config <path>]   open the terminal sheet\n")
	fmt.Fprintf(os.Stderr, "  reckon serve [--json-file <path>] [--config <path>]\n")
	fmt.Fprintf(os.Stderr, "               [--addr <host:port>] [--publish <endpoint>]\n")
	fmt.Fprintf(os.Stderr, "                                                         start the websocket server\n")
	fmt.Fprintf(os.Stderr, "  reckon help                                            show this help message\n")
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	fmt.Fprintf(os.Stderr, "  --json-file <path>   load the initial sheet from a JSON export\n")
	fmt.Fprintf(os.Stderr, "  --config <path>      YAML config: rows, columns, listen, publish\n")
	fmt.Fprintf(os.Stderr, "  --addr <host:port>   websocket listen address (serve)\n")
	fmt.Fprintf(os.Stderr, "  --publish <endpoint> zeromq endpoint for the change feed (serve)\n")
}

type options struct {
	jsonFile string
	config   string
	addr     string
	publish  string
}

func parseArgs(args []string) (options, error) {
	var opts options
	take := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}
	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--json-file":
			opts.jsonFile, err = take(i, args[i])
			i++
		case "--config":
			opts.config, err = take(i, args[i])
			i++
		case "--addr":
			opts.addr, err = take(i, args[i])
			i++
		case "--publish":
			opts.publish, err = take(i, args[i])
			i++
		default:
			err = fmt.Errorf("unknown argument %q", args[i])
		}
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// buildSheet resolves config and the optional JSON import into a ready
// engine. Startup failures print a message keyed to the failure class and
// map to a non-zero exit.
func buildSheet(opts options) (*sheet.Sheet, config.Config, int) {
	cfg := config.Default()
	if opts.config != "" {
		var err error
		if cfg, err = config.Load(opts.config); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return nil, cfg, 1
		}
	}
	if opts.addr != "" {
		cfg.Listen = opts.addr
	}
	if opts.publish != "" {
		cfg.Publish = opts.publish
	}

	if opts.jsonFile == "" {
		return sheet.NewWithSize(cfg.Rows, cfg.Columns), cfg, 0
	}
	s, err := sheet.LoadFile(opts.jsonFile, cfg.Rows, cfg.Columns)
	if err != nil {
		switch sheet.Classify(err) {
		case sheet.ReasonParseError:
			fmt.Fprintf(os.Stderr, "file data cannot be loaded as a valid sheet: %v\n", err)
		case sheet.ReasonCircularDependencies:
			fmt.Fprintf(os.Stderr, "dependency cycle in the loaded data: %v\n", err)
		case sheet.ReasonBadName:
			fmt.Fprintf(os.Stderr, "file contained an invalid cell name: %v\n", err)
		case sheet.ReasonEvaluationError, sheet.ReasonZeroDivision:
			fmt.Fprintf(os.Stderr, "loaded data does not evaluate: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", opts.jsonFile, err)
		}
		return nil, cfg, 1
	}
	return s, cfg, 0
}

func viewCommand(args []string) int {
	opts, err := parseArgs(args)
	if err != nil || opts.addr != "" || opts.publish != "" {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "--addr and --publish only apply to serve\n")
		}
		usage()
		return 2
	}
	s, _, code := buildSheet(opts)
	if code != 0 {
		return code
	}
	if err := tui.New(s).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

func serveCommand(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		usage()
		return 2
	}
	s, cfg, code := buildSheet(opts)
	if code != 0 {
		return code
	}
	if opts.jsonFile == "" {
		server.PopulateDemo(s)
	}

	var publisher *server.Publisher
	if cfg.Publish != "" {
		publisher, err = server.NewPublisher(context.Background(), cfg.Publish)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		defer publisher.Close()
	}
	if err := server.New(s, publisher).Start(cfg.Listen); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}
