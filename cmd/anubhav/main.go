package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	anubhav "github.com/anubhavg-icpl/anubhav-lang"
)

const (
	appName     = "anubhav"
	configName  = "anubhav.yml"
	historyFile = ".anubhav_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

var banner = fmt.Sprintf("Anubhav %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", anubhav.Version)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(anubhav.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Anubhav %s

Usage:
  %s run <file.anubhav> [--config <file>]   Run a script.
  %s repl                                   Start the REPL.
  %s version                                Print the version

`, anubhav.Version, appName, appName, appName)
}

// loadOptions reads the config file. An explicit path must exist; the
// implicit one next to the script may be absent.
func loadOptions(explicit, scriptDir string) ([]anubhav.Option, error) {
	if explicit != "" {
		cfg, err := anubhav.LoadConfig(explicit)
		if err != nil {
			return nil, err
		}
		return cfg.Options(), nil
	}
	cfg, err := anubhav.LoadConfigIfPresent(filepath.Join(scriptDir, configName))
	if err != nil {
		return nil, err
	}
	return cfg.Options(), nil
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to anubhav.yml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.anubhav> [--config <file>]\n", appName)
		return 2
	}

	file := fs.Arg(0)
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	opts, err := loadOptions(*configPath, filepath.Dir(file))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	ip := anubhav.NewInterp(opts...)
	if err := ip.Run(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(anubhav.WrapErrorWithName(err, file, string(src)).Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := anubhav.NewInterp()

	for {
		code, ok := readByParseProbe(ip, ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		if err := ip.Run(code); err != nil {
			fmt.Fprintln(os.Stderr, red(anubhav.WrapErrorWithSource(err, code).Error()))
			continue
		}
		fmt.Print(green("ok\n"))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe accumulates lines until the input parses or fails
// with a definitive error. Incomplete parses (open blocks) keep the
// continuation prompt going.
func readByParseProbe(ip *anubhav.Interp, ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := anubhav.ParseSource(src, ip.Ops())
		if perr == nil {
			return src, true
		}
		if anubhav.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
