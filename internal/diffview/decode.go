package diffview

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

const tabWidth = 8

// Style is the resolved SGR state of a span. Colors are lipgloss color
// strings: an ANSI index ("0".."255"), "#rrggbb", or empty for default.
type Style struct {
	Fg            string
	Bg            string
	Bold          bool
	Faint         bool
	Italic        bool
	Underline     bool
	Reverse       bool
	Strikethrough bool
}

// IsZero reports whether s is the terminal default style.
func (s Style) IsZero() bool { return s == Style{} }

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Line is one display line of decoded output.
type Line []Span

// Text returns the line without styling.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Decode converts colorized tool output into styled lines, one per input
// line. Input that is not valid UTF-8 or ends inside an escape sequence is
// decoded as plain text instead. Decode never fails; non-empty input yields
// at least one line.
func Decode(b []byte) []Line {
	if len(b) == 0 {
		return []Line{}
	}
	if lines, ok := decodeStyled(b); ok {
		return lines
	}
	return decodePlain(b)
}

func decodeStyled(b []byte) ([]Line, bool) {
	if !utf8.Valid(b) {
		return nil, false
	}

	var (
		lines   []Line
		cur     Line
		text    strings.Builder
		style   Style
		col     int
		pending bool
		state   byte = ansi.NormalState
	)
	flush := func() {
		if text.Len() > 0 {
			cur = append(cur, Span{Text: text.String(), Style: style})
			text.Reset()
		}
	}
	endLine := func() {
		flush()
		if cur == nil {
			cur = Line{}
		}
		lines = append(lines, cur)
		cur = nil
		col = 0
		pending = false
	}

	for len(b) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(b, state, nil)
		if n <= 0 {
			return nil, false
		}
		state = newState
		b = b[n:]
		pending = true

		switch {
		case len(seq) == 1 && seq[0] == '\n':
			endLine()
		case len(seq) == 1 && seq[0] == '\t':
			pad := tabWidth - col%tabWidth
			text.WriteString(strings.Repeat(" ", pad))
			col += pad
		case seq[0] == ansi.ESC:
			params, ok := sgrParams(seq)
			if !ok {
				// Cursor movement, OSC and friends carry nothing to display.
				continue
			}
			if next := applySGR(style, params); next != style {
				flush()
				style = next
			}
		case width == 0 && len(seq) == 1 && (seq[0] < 0x20 || seq[0] == 0x7f):
			// Bare control characters, including '\r' from CRLF input.
		default:
			text.Write(seq)
			col += width
		}
	}
	if state != ansi.NormalState {
		return nil, false
	}
	if pending {
		endLine()
	}
	return lines, true
}

// decodePlain is the lossy path: invalid bytes become U+FFFD, escape
// sequences are stripped and every line is a single unstyled span.
// Lines are split before stripping so an unterminated sequence only
// eats the rest of its own line.
func decodePlain(b []byte) []Line {
	s := strings.TrimSuffix(lossyString(b), "\n")
	raw := strings.Split(s, "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		l = expandTabs(ansi.Strip(l))
		l = strings.Map(func(r rune) rune {
			if r < 0x20 || r == 0x7f {
				return -1
			}
			return r
		}, l)
		if l == "" {
			lines = append(lines, Line{})
			continue
		}
		lines = append(lines, Line{{Text: l}})
	}
	return lines
}

// lossyString replaces every invalid byte with U+FFFD.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(b[:size])
		}
		b = b[max(size, 1):]
	}
	return sb.String()
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col += ansi.StringWidth(string(r))
	}
	return b.String()
}

// sgrParams extracts the numeric parameters of a CSI ... m sequence.
func sgrParams(seq []byte) ([]int, bool) {
	if len(seq) < 3 || seq[0] != ansi.ESC || seq[1] != '[' || seq[len(seq)-1] != 'm' {
		return nil, false
	}
	body := string(seq[2 : len(seq)-1])
	if body == "" {
		return []int{0}, true
	}
	fields := strings.Split(strings.ReplaceAll(body, ":", ";"), ";")
	params := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			params = append(params, 0)
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, false
		}
		params = append(params, n)
	}
	return params, true
}

func applySGR(s Style, params []int) Style {
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s = Style{}
		case p == 1:
			s.Bold = true
		case p == 2:
			s.Faint = true
		case p == 3:
			s.Italic = true
		case p == 4 || p == 21:
			s.Underline = true
		case p == 7:
			s.Reverse = true
		case p == 9:
			s.Strikethrough = true
		case p == 22:
			s.Bold, s.Faint = false, false
		case p == 23:
			s.Italic = false
		case p == 24:
			s.Underline = false
		case p == 27:
			s.Reverse = false
		case p == 29:
			s.Strikethrough = false
		case p >= 30 && p <= 37:
			s.Fg = strconv.Itoa(p - 30)
		case p == 38:
			c, used := extendedColor(params[i+1:])
			if c != "" {
				s.Fg = c
			}
			i += used
		case p == 39:
			s.Fg = ""
		case p >= 40 && p <= 47:
			s.Bg = strconv.Itoa(p - 40)
		case p == 48:
			c, used := extendedColor(params[i+1:])
			if c != "" {
				s.Bg = c
			}
			i += used
		case p == 49:
			s.Bg = ""
		case p >= 90 && p <= 97:
			s.Fg = strconv.Itoa(p - 90 + 8)
		case p >= 100 && p <= 107:
			s.Bg = strconv.Itoa(p - 100 + 8)
		}
	}
	return s
}

// extendedColor reads "5;n" or "2;r;g;b" and reports how many params it used.
// A malformed tail consumes the rest of the sequence.
func extendedColor(rest []int) (string, int) {
	if len(rest) >= 2 && rest[0] == 5 {
		return strconv.Itoa(clamp8(rest[1])), 2
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return fmt.Sprintf("#%02x%02x%02x", clamp8(rest[1]), clamp8(rest[2]), clamp8(rest[3])), 4
	}
	return "", len(rest)
}

func clamp8(n int) int {
	if n > 255 {
		return 255
	}
	return n
}
