package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"filetrail/internal/changestore"
	"filetrail/internal/config"
	"filetrail/internal/differ"
	"filetrail/internal/history"
	"filetrail/internal/logger"
	"filetrail/internal/models"
	"filetrail/internal/scheduler"
	"filetrail/internal/tracker"
	"filetrail/internal/watcher"
)

func main() {
	flags, err := parseFlags()
	if err != nil {
		log.Fatalf("[FATAL] Invalid arguments: %v", err)
	}
	if flags.mode == "" {
		log.Fatalln("[FATAL] -mode argument is required (watch, history, rollback, restore, prune, clear)")
	}

	gCfg, err := config.LoadGlobalConfig(flags.configFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load config using path '%s': %v", flags.configFile, err)
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		log.Fatalf("[FATAL] Invalid configuration: %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	root, err := filepath.Abs(flags.root)
	if err != nil {
		zLogger.Fatal().Err(err).Str("root", flags.root).Msg("Could not resolve workspace root")
	}

	store, err := changestore.NewChangeStore(gCfg.StoreConfig.DBPath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not open change store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			zLogger.Error().Err(err).Msg("Failed to close change store")
		}
	}()

	contentDiffer := differ.NewContentDiffer(gCfg.DiffConfig, zLogger)
	controller := history.NewController(store, contentDiffer, zLogger)

	switch flags.mode {
	case "watch":
		runWatch(root, gCfg, store, controller, zLogger)
	case "history":
		runHistory(controller, flags, zLogger)
	case "rollback":
		runRollback(root, gCfg, controller, flags, zLogger)
	case "restore":
		runRestore(root, gCfg, controller, flags, zLogger)
	case "prune":
		retention := scheduler.NewRetentionScheduler(store, gCfg.RetentionConfig, zLogger)
		retention.RunOnce()
	case "clear":
		cleared, err := store.ClearAll()
		if err != nil {
			zLogger.Fatal().Err(err).Msg("Failed to clear history")
		}
		fmt.Printf("Cleared %d change records.\n", cleared)
	default:
		zLogger.Fatal().Str("mode", flags.mode).Msg("Unknown mode")
	}
}

// runWatch runs the watcher, tracker, and retention scheduler until the
// process is signalled.
func runWatch(root string, gCfg *config.GlobalConfig, store *changestore.ChangeStore, controller *history.Controller, zLogger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	fileWatcher, err := watcher.NewWatcher(root, gCfg.WatcherConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not create file watcher")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		retention := scheduler.NewRetentionScheduler(store, gCfg.RetentionConfig, zLogger)
		retention.Start(ctx)
	}()

	trackerService := tracker.NewTracker(root, fileWatcher, controller, zLogger)
	if err := trackerService.Run(ctx); err != nil {
		zLogger.Error().Err(err).Msg("Tracker stopped with error")
	}
	wg.Wait()
}

// runHistory prints recent records, annotated with their derived status.
func runHistory(controller *history.Controller, flags *cliFlags, zLogger zerolog.Logger) {
	var (
		records []models.AnnotatedRecord
		err     error
	)
	if flags.filePath != "" {
		records, err = controller.ListByFile(flags.filePath, flags.limit)
	} else {
		records, err = controller.ListRecent(flags.limit)
	}
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to list history")
	}

	for _, record := range records {
		marker := " "
		switch {
		case record.Status.CanRestore:
			marker = "R"
		case record.Status.IsRollbackTarget:
			marker = "T"
		case record.ChangeRecord.IsCovered():
			marker = "c"
		}
		fmt.Printf("%s #%-6d %-10s %-40s +%d/-%d  %s\n",
			marker, record.ID, record.OperationType, record.FilePath,
			record.LinesAdded, record.LinesRemoved,
			record.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

// runRollback rolls back one target, or a batch when -ids is given.
func runRollback(root string, gCfg *config.GlobalConfig, controller *history.Controller, flags *cliFlags, zLogger zerolog.Logger) {
	fileWatcher, err := watcher.NewWatcher(root, gCfg.WatcherConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not create file watcher")
	}
	trackerService := tracker.NewTracker(root, fileWatcher, controller, zLogger)

	if len(flags.recordIDs) > 0 {
		results, err := trackerService.BatchRollback(flags.recordIDs)
		if err != nil {
			zLogger.Fatal().Err(err).Msg("Batch rollback failed")
		}
		for _, result := range results {
			if result.Err != nil {
				fmt.Printf("rollback to #%d (%s): FAILED: %v\n", result.TargetID, result.FilePath, result.Err)
			} else {
				fmt.Printf("rollback to #%d (%s): ok\n", result.TargetID, result.FilePath)
			}
		}
		return
	}

	if flags.recordID == 0 {
		zLogger.Fatal().Msg("-id (or -ids) is required for rollback")
	}
	if err := trackerService.Rollback(flags.recordID); err != nil {
		zLogger.Fatal().Err(err).Int64("id", flags.recordID).Msg("Rollback failed")
	}
	fmt.Printf("Rolled back to record #%d.\n", flags.recordID)
}

// runRestore undoes the rollback identified by -id.
func runRestore(root string, gCfg *config.GlobalConfig, controller *history.Controller, flags *cliFlags, zLogger zerolog.Logger) {
	if flags.recordID == 0 {
		zLogger.Fatal().Msg("-id is required for restore")
	}

	fileWatcher, err := watcher.NewWatcher(root, gCfg.WatcherConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not create file watcher")
	}
	trackerService := tracker.NewTracker(root, fileWatcher, controller, zLogger)

	if err := trackerService.Restore(flags.recordID); err != nil {
		zLogger.Fatal().Err(err).Int64("id", flags.recordID).Msg("Restore failed")
	}
	fmt.Printf("Restored pre-rollback state for record #%d.\n", flags.recordID)
}
