package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

const (
	exitStartup = 1
	exitUsage   = 2
)

func main() {
	app := newApp()
	if err := app.Run(hoistFlags(app.Flags, os.Args)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "telnetc",
		Usage:     "relay stdin and stdout over a TCP connection",
		ArgsUsage: "host port",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "timeout",
				Value: "10s",
				Usage: "connect timeout, digits followed by 's'",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "optional YAML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "console, text or json",
			},
		},
		HideHelpCommand: true,
		Action:          run,
	}
}

// hoistFlags moves flags that follow the positionals in front of them, so
// "telnetc host port --timeout 5s" parses like "telnetc --timeout 5s host port".
// Anything after "--" stays positional.
func hoistFlags(flags []cli.Flag, args []string) []string {
	if len(args) == 0 {
		return args
	}
	takesValue := make(map[string]bool)
	for _, f := range flags {
		if _, ok := f.(*cli.StringFlag); ok {
			for _, name := range f.Names() {
				takesValue[name] = true
			}
		}
	}

	var opts, positional []string
	terminated := false
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			terminated = true
			positional = append(positional, rest[i+1:]...)
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}
		opts = append(opts, arg)
		name := strings.TrimLeft(arg, "-")
		if !strings.Contains(name, "=") && takesValue[name] && i+1 < len(rest) {
			i++
			opts = append(opts, rest[i])
		}
	}

	out := append([]string{args[0]}, opts...)
	if terminated {
		out = append(out, "--")
	}
	return append(out, positional...)
}
