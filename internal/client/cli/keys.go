package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/postforge/identity/internal/common"
)

// ListKeys fetches and prints the user's API keys in preview form.
func (a *App) ListKeys(ctx context.Context) error {
	keys, err := a.keys.List(ctx)
	if err != nil {
		fmt.Printf("Failed to list API keys: %s\n", err.Error())
		return err
	}

	if len(keys) == 0 {
		fmt.Println("No API keys yet. Use 'newkey' to create one.")
		return nil
	}

	for _, k := range keys {
		lastUsed := "never"
		if k.LastUsed != nil {
			lastUsed = k.LastUsed.Format("2006-01-02 15:04")
		}
		fmt.Printf("%s  %-20s %s  last used: %s\n", k.ID, k.Name, k.KeyPreview, lastUsed)
	}
	return nil
}

// CreateKey issues a new API key. The full secret is shown masked first
// and in the clear only after an explicit reveal confirmation; once the
// prompt is dismissed it cannot be retrieved again.
func (a *App) CreateKey(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter key name", os.Stdout)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}

	issued, err := a.keys.Create(ctx, name, description)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTooManyKeys):
			fmt.Println("Maximum number of API keys reached, revoke one first.")
		case errors.Is(err, common.ErrValidation):
			fmt.Printf("Invalid input: %s\n", err.Error())
		default:
			fmt.Printf("Failed to create API key: %s\n", err.Error())
		}
		return err
	}

	record := issued.Record()
	fmt.Printf("Created key %q (%s)\n", record.Name, issued.Masked())

	reveal, err := GetConfirmation(a.reader, "Reveal the full key? It will not be shown again.", os.Stdout)
	if err != nil {
		return err
	}
	if reveal {
		fmt.Println(issued.Reveal())
	}
	return nil
}

// RevokeKey deletes a key after an explicit confirmation. Revocation is
// irreversible and takes effect immediately.
func (a *App) RevokeKey(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter key id", os.Stdout)
	if err != nil {
		return err
	}

	confirmed, err := GetConfirmation(a.reader, "Revoke this key? Clients using it will stop working.", os.Stdout)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.keys.Revoke(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println("No such key.")
		} else {
			fmt.Printf("Failed to revoke API key: %s\n", err.Error())
		}
		return err
	}

	fmt.Println("Key revoked.")
	return nil
}
