package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func requireExactlyArgs(count int, message string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != count {
			return errors.New(message)
		}
		return nil
	}
}

func requireAtLeastOneID(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("at least one id is required")
	}
	return nil
}
