package cli

import (
	"context"
	"errors"
	"os"

	"github.com/ainarsv/trove/internal/remote"
)

func (a *App) Register(ctx context.Context) error {
	identifier, err := GetSimpleText(a.reader, "Identifier (email or username)", os.Stdout)
	if err != nil {
		return err
	}
	displayName, err := GetSimpleText(a.reader, "Display name", os.Stdout)
	if err != nil {
		return err
	}
	pw, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, identifier, pw, displayName); err != nil {
		if errors.Is(err, remote.ErrUnavailable) {
			printlnFn("Registration needs a reachable backend; try again later.")
			return err
		}
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Registered. You are now able to log in offline on this device.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	identifier, err := GetSimpleText(a.reader, "Identifier (email or username)", os.Stdout)
	if err != nil {
		return err
	}
	pw, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.authService.Login(ctx, identifier, pw)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			printlnFn("Invalid credentials.")
			return err
		}
		printlnFn("Login failed:", err.Error())
		return err
	}

	if err := a.openSession(ctx, sess); err != nil {
		printlnFn("Could not open vault:", err.Error())
		return err
	}

	name := sess.DisplayName
	if name == "" {
		name = sess.UserID
	}
	if sess.Offline {
		printlnFn("Welcome back,", name, "(offline)")
	} else {
		printlnFn("Welcome,", name)
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.closeSession()
	printlnFn("Logged out.")
	return nil
}
