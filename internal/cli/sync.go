package cli

import "context"

func (a *App) sync(ctx context.Context) error {
	done, err := a.syncService.Drain(ctx)
	if err != nil {
		printlnFn("Synced", done, "actions before stopping:", err.Error())
		return err
	}
	if done == 0 {
		printlnFn("Nothing to sync.")
		return nil
	}
	printlnFn("Synced", done, "actions.")
	return nil
}

func (a *App) pending(ctx context.Context) error {
	n, err := a.vaultService.OutboxCount(ctx)
	if err != nil {
		printlnFn("Pending check failed:", err.Error())
		return err
	}
	if n == 0 {
		printlnFn("Everything is synced.")
		return nil
	}
	actions, err := a.vaultService.Outbox(ctx)
	if err != nil {
		printlnFn("Pending check failed:", err.Error())
		return err
	}
	printlnFn(n, "pending actions:")
	for _, act := range actions {
		printlnFn(" ", string(act.Action), act.Table, act.RecordID())
	}
	return nil
}
