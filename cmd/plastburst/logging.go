// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newLogger builds the stage logger. Debug level when --verbose is set,
// warnings and up otherwise so batch status lines stay readable.
func newLogger(cmd *cobra.Command) (*zap.SugaredLogger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := zap.NewDevelopmentConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
