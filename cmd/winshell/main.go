package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/mcp"
	"github.com/1broseidon/winshell/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runShell(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "check":
		os.Exit(runCheck(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Run the window shell (foreground)")
	fmt.Fprintln(w, "  status              Show shell status")
	fmt.Fprintln(w, "  check               Verify the shell's window indices")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows list        List open windows")
	fmt.Fprintln(w, "  windows open        Open a window")
	fmt.Fprintln(w, "  windows close       Close a window")
	fmt.Fprintln(w, "  windows redraw      Request a window repaint")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive window inspector")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winshell <command> --help' for command-specific options.")
}

// noArgs parses a flag set that takes no positional arguments and returns an
// exit code, or -1 to continue.
func noArgs(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show shell status via IPC.")
	}
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("shell_running:  %v\n", status.ShellRunning)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell check")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the shell to verify that its window indices agree.")
	}
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	if err := ipc.NewClient().Check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("windows: ok")
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Output JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell monitors [--json]")
	}
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data.Monitors)
	}
	for _, m := range data.Monitors {
		fmt.Printf("%d\t%s\t%dx%d+%d+%d\tscale=%g\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y, m.ScaleFactor)
	}
	return 0
}

func printWindowsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winshell windows list [--json]")
	fmt.Fprintln(w, "  winshell windows open --title T --width W --height H [--x X --y Y] [--decorations] [--resizable] [--exit-on-close]")
	fmt.Fprintln(w, "  winshell windows close <id>")
	fmt.Fprintln(w, "  winshell windows redraw <id>")
}

func runWindows(args []string) int {
	if len(args) == 0 {
		printWindowsUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		return runWindowsList(args[1:])
	case "open":
		return runWindowsOpen(args[1:])
	case "close":
		return runWindowAction("close", args[1:], ipc.NewClient().CloseWindow)
	case "redraw":
		return runWindowAction("redraw", args[1:], ipc.NewClient().RequestRedraw)
	case "help", "-h", "--help":
		printWindowsUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown windows command: %s\n\n", args[0])
		printWindowsUsage(os.Stderr)
		return 2
	}
}

func runWindowsList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Output JSON")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		if windows == nil {
			windows = []ipc.WindowInfo{}
		}
		return printJSON(windows)
	}
	for _, w := range windows {
		pos := "-"
		if w.X != nil && w.Y != nil {
			pos = fmt.Sprintf("%g,%g", *w.X, *w.Y)
		}
		fmt.Printf("%d\t0x%x\t%gx%g\t%s\tredraw=%t\t%s\n", w.ID, w.Handle, w.Width, w.Height, pos, w.RedrawPending, w.Title)
	}
	return 0
}

func runWindowsOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	title := fs.String("title", "winshell", "Window title")
	width := fs.Float64("width", 800, "Logical width")
	height := fs.Float64("height", 600, "Logical height")
	x := fs.Float64("x", 0, "Logical x position (requires --y)")
	y := fs.Float64("y", 0, "Logical y position (requires --x)")
	decorations := fs.Bool("decorations", false, "Ask the window manager for a title bar")
	resizable := fs.Bool("resizable", false, "Allow resizing")
	exitOnClose := fs.Bool("exit-on-close", false, "Stop the shell when this window is asked to close")
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["x"] != set["y"] {
		fmt.Fprintln(os.Stderr, "--x and --y must be given together")
		return 2
	}

	payload := ipc.OpenWindowPayload{
		Title:              *title,
		Width:              float32(*width),
		Height:             float32(*height),
		Decorations:        *decorations,
		Resizable:          *resizable,
		ExitOnCloseRequest: *exitOnClose,
	}
	if set["x"] {
		px, py := float32(*x), float32(*y)
		payload.X, payload.Y = &px, &py
	}

	id, err := ipc.NewClient().OpenWindow(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(id)
	return 0
}

func runWindowAction(name string, args []string, action func(uint64) error) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: winshell windows %s <id>\n", name)
		return 2
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid window id %q\n", args[0])
		return 2
	}
	if err := action(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winshell config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  winshell config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  winshell config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		_ = fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive inspector for the windows of a running shell.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓  Select a window")
		fmt.Fprintln(os.Stderr, "  r         Request a redraw of the selected window")
		fmt.Fprintln(os.Stderr, "  x         Close the selected window")
		fmt.Fprintln(os.Stderr, "  ctrl+r    Refresh now")
		fmt.Fprintln(os.Stderr, "  q         Quit")
	}
	if code := noArgs(fs, args); code >= 0 {
		return code
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winshell mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		if len(args) > 1 && (args[1] == "help" || args[1] == "-h" || args[1] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: winshell mcp serve")
			fmt.Fprintln(os.Stdout, "")
			fmt.Fprintln(os.Stdout, "Start the MCP server on stdio. Tools forward to a running")
			fmt.Fprintln(os.Stdout, "'winshell run' over its IPC socket.")
			return 0
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := mcp.NewServer(ipc.NewClient()).Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}
