package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"esilcfg/internal/esilcfg/log"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
}

var rootCmd = &cobra.Command{
	Use:   "esilcfg",
	Short: "Control-flow graphs from ESIL",
	Long: `esilcfg builds control-flow graphs of basic blocks from ESIL, the
evaluable strings intermediate language of rizin. It reads instruction
listings or single expressions and prints the graph as text, DOT or markdown,
or browses it in a terminal UI.`,
	Example: `
# Graph a listing of "addr size esil [type]" lines
esilcfg graph prog.txt

# Graph rizin aoj output as DOT, merging straight line blocks
esilcfg graph -f dot --merge prog.json | dot -Tsvg > prog.svg

# Graph a single expression
esilcfg graph --expr 'zf,?{,0x40,rip,=,}' --addr 0x1000
  `,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ResolveCwd(cmd); err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("config")
		conf, err := LoadConfig(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("debug") {
			conf.Debug, _ = cmd.Flags().GetBool("debug")
		}
		if cmd.Flags().Changed("log-file") {
			conf.LogFile, _ = cmd.Flags().GetString("log-file")
		}
		log.Setup(conf.LogFile, conf.Debug)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return log.Close()
	},
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	var err error
	// Bypass fang's markdown rendering when output is being piped
	if !term.IsTerminal(os.Stdout.Fd()) {
		err = rootCmd.Execute()
	} else {
		err = fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		)
	}
	if err != nil {
		return 1
	}
	return 0
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
