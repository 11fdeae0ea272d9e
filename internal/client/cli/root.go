package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/postforge/identity/internal/client/bootstrap"
)

func (a *App) getStatus() string {
	if user := a.session.CurrentUser(); user != nil {
		return fmt.Sprintf("(%s)", user.Email)
	}
	return ""
}

// Root restores any persisted session, checks the bootstrap state and
// hands control to the REPL.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to Postforge CLI (type 'help' for commands)")

	a.session.Restore(ctx)

	if a.session.IsAuthenticated() {
		fmt.Printf("Restored session for %s\n", a.session.CurrentUser().Email)
	} else {
		st := a.gate.CheckStatus(ctx)
		switch st.State {
		case bootstrap.StateUnconfigured:
			fmt.Println("System needs initial setup. Run 'setup' to create the owner account.")
		case bootstrap.StateConfigured:
			fmt.Println("Run 'login' to authenticate.")
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
