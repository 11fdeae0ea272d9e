package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/postforge/identity/internal/client/bootstrap"
	"github.com/postforge/identity/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Status checks whether the installation already has an owner account and
// reports which flow (setup or login) applies.
func (a *App) Status(ctx context.Context) error {
	st := a.gate.CheckStatus(ctx)
	fmt.Printf("System status: %s (%s)\n", st.State, st.Message)
	if st.State == bootstrap.StateUnconfigured {
		fmt.Println("Run 'setup' to create the owner account.")
	}
	return nil
}

// Setup runs the one-time owner-account bootstrap. On success the fresh
// session is active immediately; no separate login is needed.
func (a *App) Setup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Setup(ctx, name, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrAlreadyConfigured) {
			fmt.Println("System is already configured, use 'login' instead.")
			return err
		}
		fmt.Printf("Setup failed: %s\n", err.Error())
		return err
	}

	fmt.Printf("Welcome, %s! Your account is ready.\n", user.Name)
	return nil
}

// Login prompts for credentials and authenticates against the identity
// service. The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotConfigured):
			fmt.Println("System is not configured yet, run 'setup' first.")
		case errors.Is(err, common.ErrUnauthorized):
			fmt.Println("Login failed: invalid email or password.")
		case errors.Is(err, common.ErrUnavailable):
			fmt.Println("Server unavailable, try again later.")
		default:
			fmt.Printf("Login failed: %s\n", err.Error())
		}
		return err
	}

	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// Whoami prints the current identity, if any.
func (a *App) Whoami(ctx context.Context) error {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s> plan=%s\n", user.Name, user.Email, user.Plan)
	return nil
}

// Logout ends the current session. Local credentials are always cleared,
// even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}
