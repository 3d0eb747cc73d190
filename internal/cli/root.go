package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		name := a.session.DisplayName
		if name == "" {
			name = a.session.UserID
		}
		s = name + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	printlnFn("Welcome to trove (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.Login(ctx)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	for {
		fmt.Printf("trove %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: register, login, exit")
			case "register":
				a.Register(ctx)
			case "login":
				a.Login(ctx)
			case "exit", "quit":
				printlnFn("Bye!")
				return
			default:
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist <table>, add <table>, show <table> <id>, del <table> <id>,")
			printlnFn("  trash, restore <trash-id>, sweep, sync, pending, export, import, logout, exit")
		case "l", "list":
			a.list(ctx, args)
		case "add":
			a.add(ctx, args)
		case "show":
			a.show(ctx, args)
		case "del", "delete":
			a.del(ctx, args)
		case "trash":
			a.trashList(ctx)
		case "restore":
			a.restore(ctx, args)
		case "sweep":
			a.sweep(ctx)
		case "sync":
			a.sync(ctx)
		case "pending":
			a.pending(ctx)
		case "export":
			a.exportMirror(ctx)
		case "import":
			a.importMirror(ctx)
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
