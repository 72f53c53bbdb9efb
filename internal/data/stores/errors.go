package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/toaster/internal/data/db"
)

func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	// Extended result codes carry the primary code in the low byte.
	return se.Code() & 0xff, true
}

// IsBusyError reports whether err is SQLITE_BUSY or SQLITE_LOCKED, both of
// which clear once the competing writer finishes.
func IsBusyError(err error) bool {
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED)
}

var corruptMessages = []string{
	"database disk image is malformed",
	"file is not a database",
}

// IsCorruptionError reports whether err means the history file is unreadable
// and should be moved aside with RecoverFromCorruption.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3.SQLITE_CORRUPT || code == sqlite3.SQLITE_NOTADB
	}
	msg := err.Error()
	for _, m := range corruptMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// RecoverFromCorruption renames the database in dataDir, plus any WAL and SHM
// sidecars, to "<name>.corrupt.<timestamp>" so the next Open starts empty.
// A missing database is not an error.
func RecoverFromCorruption(dataDir string) error {
	base := filepath.Join(dataDir, db.FileName)
	stamp := time.Now().Format("20060102-150405")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := base + suffix
		dst := fmt.Sprintf("%s.corrupt.%s%s", base, stamp, suffix)

		err := os.Rename(src, dst)
		switch {
		case err == nil, errors.Is(err, os.ErrNotExist):
			continue
		case suffix == "":
			return fmt.Errorf("move corrupt database aside: %w", err)
		default:
			// A stale sidecar left next to a fresh database breaks the
			// next open, so removing it is the fallback.
			if rmErr := os.Remove(src); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return fmt.Errorf("move %s aside: %w", filepath.Base(src), err)
			}
		}
	}

	return nil
}
