// Package main is the entry point for the inkwell editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/inkwell-md/inkwell/internal/config"
	"github.com/inkwell-md/inkwell/internal/plugin/lua"
	"github.com/inkwell-md/inkwell/internal/session"
	"github.com/inkwell-md/inkwell/internal/source"
	"github.com/inkwell-md/inkwell/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath string
	scriptDir  string
	statePath  string
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	text := ""
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		text = string(data)
	}

	settings := config.LoadSettings(opts.configPath)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	var view *term.View
	editor := session.New(text, settings, source.Collaborators{
		DocPath: func() string { return opts.file },
		Warn: func(msg string) {
			if view != nil {
				view.SetStatus(msg)
			}
		},
		WindowID: opts.file,
	})
	view = term.NewView(screen, editor)

	if opts.statePath != "" {
		editor.UseStore(config.NewStore(opts.statePath))
		editor.RestoreCursor()
	}

	if opts.scriptDir != "" {
		engine := lua.NewEngine()
		if err := engine.LoadDir(opts.scriptDir); err != nil {
			view.SetStatus("scripts: " + err.Error())
		} else {
			editor.UseScripts(engine)
		}
	}

	view.OnSave = func() error {
		if opts.file == "" {
			return fmt.Errorf("no file to save to")
		}
		if err := os.WriteFile(opts.file, []byte(editor.Markdown()), 0o644); err != nil {
			return err
		}
		return editor.Persist()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		view.Stop()
	}()

	if err := view.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	home, _ := os.UserHomeDir()
	defaultDir := filepath.Join(home, ".config", "inkwell")

	flag.StringVar(&opts.configPath, "config", filepath.Join(defaultDir, "settings.json"), "Path to settings file")
	flag.StringVar(&opts.scriptDir, "scripts", filepath.Join(defaultDir, "scripts"), "Directory of user script files")
	flag.StringVar(&opts.statePath, "state", filepath.Join(defaultDir, "state.json"), "Path to document state file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkwell - dual-surface markdown editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwell [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+W  switch surface        Ctrl+S  save\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+B  bold                  Ctrl+E  italic\n")
		fmt.Fprintf(os.Stderr, "  Alt+1-6 heading level         Ctrl+Q  quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("inkwell %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.file = args[0]
	}
	return opts
}
