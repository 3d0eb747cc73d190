package cli

import (
	"context"
	"errors"

	"github.com/ainarsv/trove/internal/mirror"
)

var errNoMirror = errors.New("no mirror destination configured")

// mirrorDestination picks the configured snapshot destination; S3 wins over
// a local directory when both are set.
func (a *App) mirrorDestination(ctx context.Context) (mirror.Destination, error) {
	if a.config.MirrorS3Bucket != "" {
		return mirror.NewS3Destination(ctx, a.config.MirrorS3Bucket, a.config.MirrorS3Prefix)
	}
	if a.config.MirrorDir != "" {
		return mirror.NewDirDestination(a.config.MirrorDir), nil
	}
	return nil, errNoMirror
}

func (a *App) exportMirror(ctx context.Context) error {
	dest, err := a.mirrorDestination(ctx)
	if err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}

	n, err := mirror.New(a.vaultService, dest, a.log).Export(ctx)
	if err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn("Exported", n, "documents.")
	return nil
}

func (a *App) importMirror(ctx context.Context) error {
	dest, err := a.mirrorDestination(ctx)
	if err != nil {
		printlnFn("Import failed:", err.Error())
		return err
	}

	n, err := mirror.New(a.vaultService, dest, a.log).Import(ctx)
	if err != nil {
		printlnFn("Import failed:", err.Error())
		return err
	}
	printlnFn("Imported", n, "documents; they will upload on the next sync.")
	return nil
}
