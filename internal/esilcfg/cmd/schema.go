package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a graph run. It can be loaded from a YAML
// file with --config; flags given on the command line win.
type Config struct {
	Arch        string `json:"arch" yaml:"arch" jsonschema:"title=Architecture,description=Register profile used to resolve the program counter and registers,enum=x86,enum=x86_64,enum=arm64,enum=mips,enum=riscv,enum=ws,default=x86_64"`
	Format      string `json:"format" yaml:"format" jsonschema:"title=Output Format,enum=text,enum=dot,enum=markdown,default=text"`
	InputFormat string `json:"inputFormat" yaml:"inputFormat" jsonschema:"title=Input Format,description=Listing format; auto picks json for *.json files,enum=auto,enum=listing,enum=json,default=auto"`
	Merge       bool   `json:"merge" yaml:"merge" jsonschema:"title=Merge,description=Coalesce single edge chains of blocks"`
	Check       bool   `json:"check" yaml:"check" jsonschema:"title=Check,description=Run the detectors and fail on errors"`
	Color       bool   `json:"color" yaml:"color" jsonschema:"title=Color,description=Highlight ESIL in text output"`
	Debug       bool   `json:"debug" yaml:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	LogFile     string `json:"logFile,omitempty" yaml:"logFile,omitempty" jsonschema:"title=Log File,description=Write logs to this file instead of stderr"`
	Addr        string `json:"addr,omitempty" yaml:"addr,omitempty" jsonschema:"title=Address,description=Address of a single --expr expression"`
}

// DefaultConfig returns the settings used when neither a file nor flags
// say otherwise
func DefaultConfig() Config {
	return Config{
		Arch:        "x86_64",
		Format:      "text",
		InputFormat: "auto",
		Addr:        "0",
	}
}

// LoadConfig reads a YAML config file over the defaults
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parse config %s: %w", path, err)
	}
	return conf, nil
}

// Address parses Addr
func (c Config) Address() (uint64, error) {
	if c.Addr == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(c.Addr, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", c.Addr, err)
	}
	return v, nil
}

var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Generate JSON schema for configuration",
	Long:   "Generate JSON schema for the esilcfg configuration file",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := new(jsonschema.Reflector)
		bts, err := json.MarshalIndent(reflector.Reflect(&Config{}), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
