package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect and seed the checkpoint",
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last synced block",
	RunE:  runCheckpointShow,
}

var checkpointInitStart int64

var checkpointInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed a fresh checkpoint",
	Long: `Seeds the checkpoint at start-block minus one, so the next stream run
begins at start-block. Fails if a checkpoint already exists.`,
	RunE: runCheckpointInit,
}

func init() {
	checkpointInitCmd.Flags().Int64Var(&checkpointInitStart, "start-block", 0, "block the next run should start at")
	checkpointCmd.AddCommand(checkpointShowCmd)
	checkpointCmd.AddCommand(checkpointInitCmd)
	rootCmd.AddCommand(checkpointCmd)
}

func checkpointStore() (driven.CheckpointStore, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return buildCheckpointStore(cfg)
}

func runCheckpointShow(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := checkpointStore()
	if err != nil {
		return err
	}
	defer closeStore()

	value, err := store.Read()
	if err != nil {
		return fmt.Errorf("read checkpoint: %w", err)
	}
	cmd.Printf("%d\n", value)
	return nil
}

func runCheckpointInit(cmd *cobra.Command, _ []string) error {
	if checkpointInitStart < 0 {
		return fmt.Errorf("start-block must be >= 0, got %d", checkpointInitStart)
	}
	store, closeStore, err := checkpointStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Initialize(checkpointInitStart - 1); err != nil {
		return fmt.Errorf("initialize checkpoint: %w", err)
	}
	cmd.Printf("Checkpoint seeded; next run starts at block %d.\n", checkpointInitStart)
	return nil
}
