package orchestrator

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/toanth/monitors/internal/protocol"
)

// Driver is anything that can feed player-facing commands to a running
// match: a terminal, a scripted test harness, a future GUI bridge. Run
// reads each line as one of the commands listed on Run; engine seats
// never go through Driver at all.
type Driver interface {
	// NextCommand blocks for the next line of input, returning io.EOF
	// once the driver has nothing more to offer.
	NextCommand() (string, error)
}

// StdinDriver reads newline-terminated commands from an io.Reader,
// typically os.Stdin.
type StdinDriver struct {
	scanner *bufio.Scanner
}

// NewStdinDriver wraps r as a Driver.
func NewStdinDriver(r io.Reader) *StdinDriver {
	return &StdinDriver{scanner: bufio.NewScanner(r)}
}

func (d *StdinDriver) NextCommand() (string, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return d.scanner.Text(), nil
}

// Run drives o until the input source is exhausted or a "quit" command
// arrives, then tears down every engine before returning. It recognizes
// a small command language for the side to move when that side is
// human: a bare move applies it, "stop" halts the thinking engine,
// "undo" takes back one ply, and "quit" ends the session.
func Run(o *Orchestrator, driver Driver, log *zap.Logger) {
	defer o.QuitProgram()

	if err := o.StartThinking(); err != nil {
		log.Error("starting first search", zap.Error(err))
	}

	for {
		cmd, err := driver.NextCommand()
		if err != nil {
			return
		}
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		switch cmd {
		case "quit":
			return
		case "stop":
			if err := o.StopThinking(protocol.ActionIgnore); err != nil {
				log.Error("stop", zap.Error(err))
			}
		case "undo":
			o.UndoHalfmoves(1)
		default:
			if err := o.PlayMove(cmd); err != nil {
				log.Warn("rejected move", zap.String("text", cmd), zap.Error(err))
			}
		}
	}
}
