// Rebuild command repopulates missing asset caches.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-caches",
	Short: "Rebuild missing content and render caches",
	Long: `Rebuild-caches materializes every asset with a missing content cache
and renders the raw template for every asset with a missing render cache.
Assets whose caches are already populated are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	log := newLogger()

	eng, backend, err := buildEngine(log)
	if err != nil {
		return err
	}
	defer backend.Detach()

	stats, err := eng.RebuildCaches()
	if err != nil {
		return fmt.Errorf("rebuild caches: %w", err)
	}

	fmt.Printf("Materialized %d content caches, rendered %d raw caches\n",
		stats.MaterializedCount, stats.RenderedCount)
	return nil
}
