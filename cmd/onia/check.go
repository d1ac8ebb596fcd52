package main

import (
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/IzaacCoding36/onia/config"
	"github.com/IzaacCoding36/onia/submission"
)

var checkFile string

func checkCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runCheck,
		UsageLine: "check [-file resultado.csv]",
		Short:     "verify the structure of a predictions file",
		Long: `
verify that a predictions file has the id and target columns, count rows and
empty values, and show the class distribution and the first rows

	$ onia check -file resultado.csv

`,
		Flag: *flag.NewFlagSet("check", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&checkFile, "file", config.Default().OutputFile, "predictions file to verify")
	cmd.Flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runCheck(cmd *commander.Command, args []string) error {
	logger, err := newLogger("")
	if err != nil {
		return err
	}
	defer logger.Close()

	if _, err := submission.Verify(checkFile, logger); err != nil {
		logger.Error("Verification failed", err)
		return err
	}
	return nil
}
