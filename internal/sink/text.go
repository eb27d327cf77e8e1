package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/toanth/monitors/internal/oracle"
)

// Text is a plain io.Writer sink, the one place in this package that
// reaches for io.Writer directly instead of zap: it IS the terminal, not
// a structured-logging concern.
type Text struct {
	mu  sync.Mutex
	out io.Writer
}

// NewText wraps w as an OutputSink.
func NewText(w io.Writer) *Text { return &Text{out: w} }

func (t *Text) Show(board oracle.Board) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, board.FEN())
}

func (t *Text) DisplayMessage(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, message)
}

func (t *Text) UpdateEngineInfo(engineName, line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "[%s] %s\n", engineName, line)
}

func (t *Text) InformGameOver(result, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s {%s}\n", result, reason)
}

func (t *Text) WriteUgiInput(engineName, line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s < %s\n", engineName, line)
}

func (t *Text) WriteUgiOutput(engineName, line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s > %s\n", engineName, line)
}
