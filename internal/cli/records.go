package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/ainarsv/trove/internal/models"
)

// tableArg validates the table name given as the first command argument.
func tableArg(args []string) (string, bool) {
	if len(args) == 0 {
		printlnFn("Usage: <command> <table>")
		printlnFn("Tables:", strings.Join(models.Tables, ", "))
		return "", false
	}
	table := strings.ToLower(args[0])
	if !models.ValidTable(table) {
		printlnFn("Unknown table:", table)
		printlnFn("Tables:", strings.Join(models.Tables, ", "))
		return "", false
	}
	return table, true
}

func (a *App) list(ctx context.Context, args []string) error {
	table, ok := tableArg(args)
	if !ok {
		return nil
	}

	recs, err := a.vaultService.GetAll(ctx, table)
	if err != nil {
		printlnFn("List failed:", err.Error())
		return err
	}
	pending, err := a.vaultService.PendingIDs(ctx)
	if err != nil {
		printlnFn("List failed:", err.Error())
		return err
	}

	if len(recs) == 0 {
		printlnFn("No entries in", table)
		return nil
	}
	for _, r := range recs {
		badge := " "
		if _, ok := pending[r.ID]; ok {
			badge = "*"
		}
		printlnFn(badge, r.ID, string(r.Payload))
	}
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	table, ok := tableArg(args)
	if !ok {
		return nil
	}

	raw, err := GetSimpleText(a.reader, "Entity JSON", os.Stdout)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		printlnFn("Not valid JSON:", err.Error())
		return err
	}

	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.NewString()
		doc["id"] = id
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err := a.vaultService.Save(ctx, table, id, payload); err != nil {
		printlnFn("Save failed:", err.Error())
		return err
	}
	printlnFn("Saved", table, id)
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	table, ok := tableArg(args)
	if !ok {
		return nil
	}
	if len(args) < 2 {
		printlnFn("Usage: show <table> <id>")
		return nil
	}

	rec, err := a.vaultService.Get(ctx, table, args[1])
	if err != nil {
		printlnFn("Lookup failed:", err.Error())
		return err
	}
	if rec == nil {
		printlnFn("Not found.")
		return nil
	}
	printlnFn(string(rec.Payload))
	printlnFn("status:", string(rec.SyncStatus), " modified:", rec.LastModified.Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) del(ctx context.Context, args []string) error {
	table, ok := tableArg(args)
	if !ok {
		return nil
	}
	if len(args) < 2 {
		printlnFn("Usage: del <table> <id>")
		return nil
	}

	entry, err := a.vaultService.Trash(ctx, table, args[1])
	if err != nil {
		printlnFn("Delete failed:", err.Error())
		return err
	}
	if entry == nil {
		printlnFn("Not found.")
		return nil
	}
	printlnFn("Moved to trash as", entry.ID)
	printlnFn("Recoverable until", entry.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}
