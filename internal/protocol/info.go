package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/toanth/monitors/internal/oracle"
)

// SearchInfo is the accumulated, opportunistically-parsed content of one
// `info ...` line (spec.md §4.2). Unrecognized keys are silently ignored;
// multipv/currline/refutation/currmove*/tbhits/sbhits/cpuload are accepted
// and discarded (their presence is valid, their values unused).
type SearchInfo struct {
	Depth     int
	SelDepth  int
	Time      time.Duration
	Nodes     uint64
	NPS       uint64
	PV        []oracle.Move
	Score     Score
	Bound     ScoreBound
	HashFull  int
}

// ErrEngineError is returned when the engine itself reports `info error
// <text>`, which spec.md §4.2/§7 treats as fatal for the current turn.
type ErrEngineError struct {
	Message string
}

func (e *ErrEngineError) Error() string { return fmt.Sprintf("engine reported an error: %s", e.Message) }

// InfoResult is the outcome of parsing one `info` line: either an updated
// SearchInfo, a free-text string message to forward to the output sink,
// or a fatal error.
type InfoResult struct {
	Info         *SearchInfo // nil if this line carried only a string/error
	StringMsg    string      // set when the line was `info string ...`
	HasStringMsg bool
}

// ParseInfo parses the tokens following `info` (leading word stripped)
// against the current board, for move parsing of the `pv` field. game may
// be nil only in tests that never emit a `pv` token.
func ParseInfo(tokens []string, game oracle.Game, board oracle.Board, whitePOV bool, mover oracle.Color) (InfoResult, error) {
	if len(tokens) > 0 && tokens[0] == "string" {
		return InfoResult{StringMsg: strings.Join(tokens[1:], " "), HasStringMsg: true}, nil
	}

	info := &SearchInfo{}
	i := 0
	for i < len(tokens) {
		key := tokens[i]
		i++
		switch key {
		case "depth":
			v, err := nextInt(tokens, &i, "depth")
			if err != nil {
				return InfoResult{}, err
			}
			info.Depth = v
		case "seldepth":
			v, err := nextInt(tokens, &i, "seldepth")
			if err != nil {
				return InfoResult{}, err
			}
			info.SelDepth = v
		case "time":
			v, err := nextInt(tokens, &i, "time")
			if err != nil {
				return InfoResult{}, err
			}
			info.Time = time.Duration(v) * time.Millisecond
		case "nodes":
			v, err := nextInt(tokens, &i, "nodes")
			if err != nil {
				return InfoResult{}, err
			}
			info.Nodes = uint64(v)
		case "nps":
			v, err := nextInt(tokens, &i, "nps")
			if err != nil {
				return InfoResult{}, err
			}
			info.NPS = uint64(v)
		case "hashfull":
			v, err := nextInt(tokens, &i, "hashfull")
			if err != nil {
				return InfoResult{}, err
			}
			info.HashFull = v
		case "pv":
			moves, consumed := parsePV(tokens[i:], game, board)
			info.PV = moves
			i += consumed
		case "score":
			if i >= len(tokens) {
				return InfoResult{}, fmt.Errorf("info line ends after 'score'")
			}
			kind := tokens[i]
			i++
			switch kind {
			case "cp", "lowerbound", "upperbound":
				v, err := nextInt(tokens, &i, "score "+kind)
				if err != nil {
					return InfoResult{}, err
				}
				info.Score = Score(v)
				switch kind {
				case "lowerbound":
					info.Bound = BoundLower
				case "upperbound":
					info.Bound = BoundUpper
				default:
					info.Bound = BoundExact
				}
			case "mate":
				v, err := nextInt(tokens, &i, "score mate")
				if err != nil {
					return InfoResult{}, err
				}
				info.Score = MateIn(v)
			default:
				return InfoResult{}, fmt.Errorf("unrecognized score kind %q", kind)
			}
			if whitePOV && mover == oracle.Black {
				info.Score = info.Score.Negate()
			}
		case "string":
			return InfoResult{StringMsg: strings.Join(tokens[i:], " "), HasStringMsg: true}, nil
		case "error":
			return InfoResult{}, &ErrEngineError{Message: strings.Join(tokens[i:], " ")}
		case "multipv", "currline", "refutation", "currmove", "currmovenumber",
			"tbhits", "sbhits", "cpuload":
			// accepted and discarded; some of these take a following
			// value token we must still skip so the scanner stays in
			// sync with the rest of the line.
			if i < len(tokens) {
				i++
			}
		default:
			// unknown key, silently ignored per spec.md §4.2
		}
	}
	return InfoResult{Info: info}, nil
}

func nextInt(tokens []string, i *int, field string) (int, error) {
	if *i >= len(tokens) {
		return 0, fmt.Errorf("info line ends after '%s', expected a value", field)
	}
	v, err := strconv.Atoi(tokens[*i])
	*i++
	if err != nil {
		return 0, fmt.Errorf("invalid value for '%s': %w", field, err)
	}
	return v, nil
}

// parsePV consumes moves for as long as they parse against board,
// applying each move in turn to validate the next one, and returns the
// moves found plus how many tokens were consumed. The first token that
// fails to parse is left unconsumed (returned to the stream), per
// spec.md §4.2.
func parsePV(tokens []string, game oracle.Game, board oracle.Board) ([]oracle.Move, int) {
	var moves []oracle.Move
	cur := board
	consumed := 0
	for _, tok := range tokens {
		if game == nil {
			break
		}
		m, err := game.ParseMove(tok, cur)
		if err != nil {
			break
		}
		moves = append(moves, m)
		consumed++
		next, ok := game.Apply(cur, m)
		if !ok {
			break
		}
		cur = next
	}
	return moves, consumed
}
