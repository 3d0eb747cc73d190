package cli

import "context"

func (a *App) trashList(ctx context.Context) error {
	entries, err := a.vaultService.GetTrash(ctx)
	if err != nil {
		printlnFn("Trash listing failed:", err.Error())
		return err
	}
	if len(entries) == 0 {
		printlnFn("Trash is empty.")
		return nil
	}
	for _, e := range entries {
		printlnFn(e.ID, " expires", e.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (a *App) restore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: restore <trash-id>")
		return nil
	}

	restored, err := a.vaultService.RestoreFromTrash(ctx, args[0])
	if err != nil {
		printlnFn("Restore failed:", err.Error())
		return err
	}
	if restored == nil {
		printlnFn("No such trash entry; it may have expired.")
		return nil
	}
	printlnFn("Restored into", restored.Table)
	return nil
}

// sweep removes expired trash entries and the record tombstones past the
// retention window.
func (a *App) sweep(ctx context.Context) error {
	trashed, err := a.vaultService.CleanExpiredTrash(ctx)
	if err != nil {
		printlnFn("Sweep failed:", err.Error())
		return err
	}
	purged, err := a.vaultService.PurgeTombstones(ctx)
	if err != nil {
		printlnFn("Sweep failed:", err.Error())
		return err
	}
	printlnFn("Swept", trashed, "expired trash entries,", purged, "old tombstones")
	return nil
}
