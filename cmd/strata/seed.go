// Seed command loads type definitions from a fixture file.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load asset types and enum types from a fixture file",
	Long: `Seed loads asset type and enum type definitions from a YAML fixture
file into the store. Types already present (matched by name) are updated
in place, so seeding the same file twice is safe.

Example:
  strata seed fixtures/types.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	if err := backend.LoadFixtures(args[0]); err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	fmt.Println("Fixtures loaded successfully")
	return nil
}
