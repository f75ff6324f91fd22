package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/kea-lang/kea/internal/evaluator"
	"github.com/kea-lang/kea/internal/introspection"
	"github.com/kea-lang/kea/internal/sandbox"
	kea "github.com/kea-lang/kea/pkg/embed"
)

var version = "dev"

func main() {
	var (
		expr       = flag.String("e", "", "evaluate expression and print the result")
		policyPath = flag.String("policy", "", "YAML policy file restricting member access")
		verbose    = flag.Bool("verbose", false, "log dispatch decisions to stderr")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVer {
		fmt.Printf("kea %s\n", version)
		return
	}

	log := zerolog.Nop()
	if *verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	opts := []kea.Option{kea.WithLogger(log)}
	if *policyPath != "" {
		policy, err := loadPolicy(*policyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading policy: %s\n", err)
			os.Exit(1)
		}
		opts = append(opts, kea.WithPermissions(policy))
	}

	engine := kea.New(opts...)

	switch {
	case *expr != "":
		runSource(engine, *expr, true)
	case flag.NArg() > 0:
		src, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %s\n", flag.Arg(0), err)
			os.Exit(1)
		}
		runSource(engine, string(src), false)
	case isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()):
		repl(engine)
	default:
		src, err := readAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %s\n", err)
			os.Exit(1)
		}
		runSource(engine, src, false)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: kea [options] [script.kea]

Runs a script file, the -e expression, or an interactive session when
stdin is a terminal.

Options:
`)
	flag.PrintDefaults()
}

func loadPolicy(path string) (introspection.Permissions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sandbox.Load(f)
}

func runSource(engine *kea.Engine, src string, echo bool) {
	result, err := engine.Eval(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if echo && result != nil {
		fmt.Println(evaluator.Stringify(result))
	}
}

func repl(engine *kea.Engine) {
	fmt.Printf("kea %s (type 'exit' to quit)\n", version)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		result, err := engine.Eval(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			continue
		}
		fmt.Println(evaluator.Stringify(result))
	}
}

func readAll(f *os.File) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	return sb.String(), scanner.Err()
}
