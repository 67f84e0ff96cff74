package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"esilcfg/internal/analysis"
	"esilcfg/internal/esil"
	"esilcfg/internal/render"
	"esilcfg/internal/ui/colorize"
)

// errCheckFailed is returned when --check finds errors
var errCheckFailed = errors.New("cfg check failed")

var graphCmd = &cobra.Command{
	Use:   "graph [listing]",
	Short: "Build and print the CFG of a listing or expression",
	Long: `Build the control-flow graph of an instruction listing and print it.

A listing holds one instruction per line as "addr size esil [type]", or is the
JSON array printed by rizin's aoj command. Use - to read standard input.`,
	Example: `
# Text output with colors
esilcfg graph --color prog.txt

# Report unresolved gotos and blocks that never reach the end
esilcfg graph --check prog.txt

# Browse the blocks
esilcfg graph --tui prog.json
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := configFromFlags(cmd)
		if err != nil {
			return err
		}

		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		src, closeSrc, err := openSource(cmd, args)
		if err != nil {
			return err
		}
		defer closeSrc()

		useTUI, _ := cmd.Flags().GetBool("tui")
		if useTUI && term.IsTerminal(os.Stdout.Fd()) {
			program := tea.NewProgram(
				NewModel(cmd.Context(), conf, src),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				slog.Error("TUI run error", "error", err)
				return fmt.Errorf("TUI error: %v", err)
			}
			return nil
		}
		return runGraph(cmd, conf, src, cmd.OutOrStdout())
	},
}

func init() {
	graphCmd.Flags().StringP("arch", "a", "", "Register profile: "+strings.Join(esil.ProfileNames(), ", "))
	graphCmd.Flags().StringP("format", "f", "", "Output format: "+strings.Join(render.Formats(), ", "))
	graphCmd.Flags().StringP("input-format", "i", "", "Listing format: auto, listing, json")
	graphCmd.Flags().BoolP("merge", "m", false, "Merge single edge chains of blocks")
	graphCmd.Flags().Bool("check", false, "Run the detectors and fail on errors")
	graphCmd.Flags().Bool("color", false, "Highlight ESIL in text output")
	graphCmd.Flags().StringP("expr", "e", "", "Graph a single ESIL expression instead of a listing")
	graphCmd.Flags().String("addr", "", "Address of the --expr expression")
	graphCmd.Flags().BoolP("tui", "t", false, "Browse the graph interactively")
	graphCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")

	rootCmd.AddCommand(graphCmd)
}

// configFromFlags loads --config and applies the flags that were set
func configFromFlags(cmd *cobra.Command) (Config, error) {
	path, _ := cmd.Flags().GetString("config")
	conf, err := LoadConfig(path)
	if err != nil {
		return conf, err
	}
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	str("arch", &conf.Arch)
	str("format", &conf.Format)
	str("input-format", &conf.InputFormat)
	str("addr", &conf.Addr)
	str("log-file", &conf.LogFile)
	boolean("merge", &conf.Merge)
	boolean("check", &conf.Check)
	boolean("color", &conf.Color)
	boolean("debug", &conf.Debug)

	// colors only make sense on a terminal
	if !term.IsTerminal(os.Stdout.Fd()) || !colorize.Enabled() {
		conf.Color = false
	}
	return conf, nil
}

// openSource picks the expression or listing named on the command line
func openSource(cmd *cobra.Command, args []string) (source, func(), error) {
	noop := func() {}
	expr, _ := cmd.Flags().GetString("expr")
	if cmd.Flags().Changed("expr") {
		if len(args) > 0 {
			return source{}, noop, fmt.Errorf("--expr and a listing file are exclusive")
		}
		return source{name: "expr", expr: expr}, noop, nil
	}
	if len(args) == 0 {
		return source{}, noop, fmt.Errorf("usage: esilcfg graph <listing> or --expr <esil>")
	}
	if args[0] == "-" {
		return source{name: "stdin", r: cmd.InOrStdin()}, noop, nil
	}

	absPath, err := pathpkg.Abs(args[0])
	if err != nil {
		return source{}, noop, fmt.Errorf("failed to resolve path: %v", err)
	}
	f, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return source{}, noop, fmt.Errorf("file not found: %s", args[0])
		}
		return source{}, noop, fmt.Errorf("cannot access file: %v", err)
	}
	return source{name: absPath, r: f}, func() { f.Close() }, nil
}

// runGraph builds the graph and writes it to out. With --check the findings
// follow the graph and errors fail the command.
func runGraph(cmd *cobra.Command, conf Config, src source, out io.Writer) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := buildGraph(ctx, conf, src)
	if err != nil {
		return err
	}
	defer res.CFG.Release()

	opts := render.Options{Color: conf.Color}
	if src.r != nil {
		// expressions keep the default title
		opts.Title = pathpkg.Base(src.name)
	}
	if err := render.Write(out, res.CFG, render.Format(conf.Format), opts); err != nil {
		return err
	}
	slog.Debug("Graph built",
		"ops", res.Ops,
		"blocks", res.Stats.Blocks,
		"edges", res.Stats.Edges,
		"unresolved", res.Stats.Unresolved,
		"elapsed", res.Elapsed)

	if !conf.Check {
		return nil
	}
	w := out
	if render.Format(conf.Format) == render.FormatDOT {
		// keep the DOT stream parseable
		w = cmd.ErrOrStderr()
	}
	writeFindings(w, res.Findings)
	if analysis.Worst(res.Findings) >= analysis.SevError {
		return errCheckFailed
	}
	return nil
}

func writeFindings(w io.Writer, findings []analysis.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "; check: no findings")
		return
	}
	fmt.Fprintf(w, "; check: %d findings\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(w, ";   %s\n", f)
	}
}
