// internal/cli/clients.go
package bookshelf

import (
	"errors"
	"fmt"

	"github.com/mwiater/bookshelf/internal/api/archive"
	"github.com/mwiater/bookshelf/internal/api/library"
	"github.com/mwiater/bookshelf/internal/session"
)

// libraryClient builds a library API client from the loaded configuration.
func libraryClient() *library.Client {
	return library.New(GetConfig())
}

// archiveClient builds an archive service client from the loaded configuration.
func archiveClient() *archive.Client {
	return archive.New(GetConfig())
}

// sessionStore opens the persisted login session for the configured path.
func sessionStore() *session.Store {
	return session.NewStore(GetConfig().SessionFilePath())
}

// currentSession loads the persisted session, if any. A missing session is
// returned as a zero Session with ok=false, not an error.
func currentSession() (session.Session, bool) {
	sess, err := sessionStore().Load()
	if err != nil {
		return session.Session{}, false
	}
	return sess, true
}

// requireAdmin ensures an admin session exists before an admin command runs.
// The library server does not enforce roles on its admin endpoints, so the
// CLI gates on the persisted session instead.
func requireAdmin() error {
	sess, err := sessionStore().Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return errors.New("not logged in: run 'bookshelf login' first")
		}
		return fmt.Errorf("read session: %w", err)
	}
	if !sess.IsAdmin() {
		return fmt.Errorf("admin role required (logged in as %q)", sess.Role)
	}
	return nil
}
