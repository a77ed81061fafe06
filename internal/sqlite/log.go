package sqlite

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// diagLog is the append-only diagnostic log for soft failures. Entries
// are component-tagged and never shown to the end user; the dispatcher
// layer phrases user-facing messages itself.
type diagLog struct {
	mu sync.Mutex
	l  *log.Logger
	f  *os.File
}

// openDiagLog opens (or creates) the append-only log file. If the file
// cannot be opened the log degrades to discarding entries; diagnostics
// must never block the store from starting.
func openDiagLog(path string) *diagLog {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &diagLog{l: log.New(io.Discard, "", 0)}
	}
	return &diagLog{
		l: log.New(f, "", log.LstdFlags|log.LUTC),
		f: f,
	}
}

// softf records a soft failure under the given component tag.
func (d *diagLog) softf(component, format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.l.Printf("[%s] %s", component, fmt.Sprintf(format, args...))
}

// Close releases the underlying file, if any.
func (d *diagLog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f != nil {
		d.f.Close()
		d.f = nil
		d.l = log.New(io.Discard, "", 0)
	}
}
