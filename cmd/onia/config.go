package main

import (
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/IzaacCoding36/onia/config"
)

var showConfigFile string

func configCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runConfig,
		UsageLine: "config [--config onia.yaml]",
		Short:     "print the effective configuration as YAML",
		Long: `
print the default configuration, or the one read from --config, as YAML

	$ onia config > onia.yaml

`,
		Flag: *flag.NewFlagSet("config", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&showConfigFile, "config", "", "YAML configuration file")
	return cmd
}

func runConfig(cmd *commander.Command, args []string) error {
	cfg := config.Default()
	if showConfigFile != "" {
		loaded, err := config.Load(showConfigFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
