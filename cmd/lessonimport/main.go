// Command lessonimport loads lessons from a YAML file into the database.
// Lessons are matched by sequence number, so re-running an import updates
// lessons in place and keeps card IDs stable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/texdrill-api/internal/config"
	"github.com/phrazzld/texdrill-api/internal/lessonfile"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/platform/postgres"
	"github.com/phrazzld/texdrill-api/internal/redact"
	"github.com/phrazzld/texdrill-api/internal/service"
)

func main() {
	file := flag.String("file", "lessons.yaml", "path to the YAML lesson file")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing to the database")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *file, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "lessonimport: %s\n", redact.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, dryRun bool) error {
	lessons, err := lessonfile.Load(path, time.Now())
	if err != nil {
		return err
	}

	if dryRun {
		for _, l := range lessons {
			fmt.Printf("lesson %d %q: %d cards\n", l.Sequence, l.Title, len(l.Cards))
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	importer := service.NewLessonImporter(postgres.NewPostgresLessonStore(db, log), db, log)
	if err := importer.Import(ctx, lessons); err != nil {
		return err
	}

	log.Info("lesson import finished", slog.String("file", path), slog.Int("lessons", len(lessons)))
	return nil
}
