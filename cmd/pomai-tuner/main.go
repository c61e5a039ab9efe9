package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ziyasal/pomaitools/internal/pkg/common"
	"github.com/ziyasal/pomaitools/internal/pkg/tuner"
)

const exitWithErr = 1

func main() {
	exit, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit = exitWithErr
	}

	os.Exit(exit)
}

func run(args []string, stdout io.Writer) (int, error) {
	config, err := loadConfig(args)
	if err != nil {
		return exitWithErr, fmt.Errorf("couldn't load config: %s", err)
	}

	logger := common.NewZeroLogger(config.mode)
	defer logger.Close()

	t := tuner.New(tuner.WithLogger(logger))
	if _, err := t.Run(config.input, config.output); err != nil {
		return exitWithErr, err
	}

	fmt.Fprintf(stdout, "wrote %s\n", config.output)

	return 0, nil
}
