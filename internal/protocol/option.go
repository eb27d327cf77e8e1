package protocol

import (
	"fmt"
	"strings"
)

// OptionType is the tagged variant of an engine-declared option (spec.md
// §4.2).
type OptionType int

const (
	TypeCheck OptionType = iota
	TypeSpin
	TypeCombo
	TypeButton
	TypeString
)

func (t OptionType) String() string {
	switch t {
	case TypeCheck:
		return "check"
	case TypeSpin:
		return "spin"
	case TypeCombo:
		return "combo"
	case TypeButton:
		return "button"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Option is one `option name <N> type <T> ...` declaration. The core
// never validates user-supplied values against Default/Min/Max/Vars (per
// spec.md §4.2); it only stores and forwards them.
type Option struct {
	Name    string
	Type    OptionType
	Default string
	Min     string
	Max     string
	Vars    []string
}

// optionKeywords are the tokens that terminate a free-text value when scanning
// an `option` line, consuming everything up to the next recognized
// keyword (the same strategy a hand-written UCI line parser uses) so that
// multi-word names and values ("Clear Hash", "c:\\chess\\tb") survive.
var optionKeywords = map[string]bool{
	"name": true, "type": true, "default": true, "min": true, "max": true, "var": true,
}

// consumeUntilKeyword joins tokens[0:] up to (not including) the next
// keyword token, returning the joined text and how many tokens it
// consumed. "<empty>" decodes to the empty string per the UCI spec.
func consumeUntilKeyword(tokens []string) (string, int) {
	i := 0
	for i < len(tokens) && !optionKeywords[tokens[i]] {
		i++
	}
	text := strings.Join(tokens[:i], " ")
	if text == "<empty>" {
		text = ""
	}
	return text, i
}

// ParseOption parses the tokens following `option` (i.e. with the leading
// "option" word already stripped) into an Option. Type-inappropriate
// attributes (e.g. "min" on a "check" option) are reported via the
// returned error but still recorded on the Option, per spec.md §4.2.
func ParseOption(tokens []string) (Option, error) {
	var opt Option
	var errs []string

	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "name":
			text, n := consumeUntilKeyword(tokens[i+1:])
			opt.Name = text
			i += n
		case "type":
			if i+1 >= len(tokens) {
				errs = append(errs, "option line ends after 'type'")
				continue
			}
			i++
			switch tokens[i] {
			case "check":
				opt.Type = TypeCheck
			case "spin":
				opt.Type = TypeSpin
			case "combo":
				opt.Type = TypeCombo
			case "button":
				opt.Type = TypeButton
			case "string":
				opt.Type = TypeString
			default:
				errs = append(errs, fmt.Sprintf("unrecognized option type %q", tokens[i]))
			}
		case "default":
			text, n := consumeUntilKeyword(tokens[i+1:])
			if opt.Type == TypeButton {
				errs = append(errs, "option type 'button' cannot have a default value")
			}
			opt.Default = text
			i += n
		case "min":
			text, n := consumeUntilKeyword(tokens[i+1:])
			if opt.Type != TypeSpin {
				errs = append(errs, fmt.Sprintf("option type %q cannot have a min value", opt.Type))
			}
			opt.Min = text
			i += n
		case "max":
			text, n := consumeUntilKeyword(tokens[i+1:])
			if opt.Type != TypeSpin {
				errs = append(errs, fmt.Sprintf("option type %q cannot have a max value", opt.Type))
			}
			opt.Max = text
			i += n
		case "var":
			text, n := consumeUntilKeyword(tokens[i+1:])
			if opt.Type != TypeCombo {
				errs = append(errs, fmt.Sprintf("option type %q cannot have a var value", opt.Type))
			}
			opt.Vars = append(opt.Vars, text)
			i += n
		}
	}

	if opt.Name == "" {
		errs = append(errs, "option line is missing a name")
	}

	if len(errs) > 0 {
		return opt, fmt.Errorf("invalid option declaration: %s", strings.Join(errs, "; "))
	}
	return opt, nil
}
