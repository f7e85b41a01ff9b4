package diffview

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	return out
}

func TestDecode_PlaceholderIsOnePlainLine(t *testing.T) {
	lines := Decode([]byte("Failed to get diff"))
	require.Len(t, lines, 1)
	require.Len(t, lines[0], 1)
	assert.Equal(t, "Failed to get diff", lines[0][0].Text)
	assert.True(t, lines[0][0].Style.IsZero())
}

func TestDecode_Empty(t *testing.T) {
	assert.Empty(t, Decode(nil))
}

func TestDecode_TrailingNewline(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, texts(Decode([]byte("a\nb\n"))))
	assert.Equal(t, []string{"a", "", "b"}, texts(Decode([]byte("a\n\nb"))))
	assert.Equal(t, []string{""}, texts(Decode([]byte("\n"))))
	assert.Equal(t, []string{"a", "b"}, texts(Decode([]byte("a\r\nb\r\n"))))
}

func TestDecode_Colors(t *testing.T) {
	in := "\x1b[1;31m-old\x1b[0m\n\x1b[32m+new\x1b[m tail\n"
	lines := Decode([]byte(in))
	require.Len(t, lines, 2)

	require.Len(t, lines[0], 1)
	assert.Equal(t, "-old", lines[0][0].Text)
	assert.Equal(t, Style{Fg: "1", Bold: true}, lines[0][0].Style)

	require.Len(t, lines[1], 2)
	assert.Equal(t, Span{Text: "+new", Style: Style{Fg: "2"}}, lines[1][0])
	assert.Equal(t, Span{Text: " tail"}, lines[1][1])
}

func TestDecode_ExtendedColors(t *testing.T) {
	lines := Decode([]byte("\x1b[38;5;196;48;2;10;20;30mx\x1b[39;49;4my\x1b[94;101mz"))
	require.Len(t, lines, 1)
	require.Len(t, lines[0], 3)
	assert.Equal(t, Style{Fg: "196", Bg: "#0a141e"}, lines[0][0].Style)
	assert.Equal(t, Style{Underline: true}, lines[0][1].Style)
	assert.Equal(t, Style{Fg: "12", Bg: "9", Underline: true}, lines[0][2].Style)
}

func TestDecode_StyleCarriesAcrossLines(t *testing.T) {
	lines := Decode([]byte("\x1b[33ma\nb\x1b[0m\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, Style{Fg: "3"}, lines[1][0].Style)
}

func TestDecode_DropsNonSGRSequences(t *testing.T) {
	lines := Decode([]byte("\x1b[2K\x1b]8;;http://x\x07link\x1b]8;;\x07\x1b[?25l ok"))
	require.Len(t, lines, 1)
	assert.Equal(t, "link ok", lines[0].Text())
}

func TestDecode_ExpandsTabs(t *testing.T) {
	lines := Decode([]byte("a\tb\n\x1b[31m1234567\t\x1b[0mx"))
	assert.Equal(t, []string{"a       b", "1234567 x"}, texts(lines))
}

func TestDecode_InvalidUTF8FallsBack(t *testing.T) {
	lines := Decode([]byte("ok\xff\xfe\n\x1b[31mred"))
	require.Len(t, lines, 2)
	assert.Equal(t, "ok��", lines[0].Text())
	assert.Equal(t, "red", lines[1].Text())
	for _, l := range lines {
		for _, sp := range l {
			assert.True(t, sp.Style.IsZero())
		}
	}
}

func TestDecode_UnterminatedEscapeFallsBack(t *testing.T) {
	lines := Decode([]byte("\x1b[32mgreen\n\x1b[31"))
	require.NotEmpty(t, lines)
	assert.Equal(t, "green", lines[0].Text())
	assert.True(t, lines[0][0].Style.IsZero())
}

func TestDecode_UnterminatedStringSequenceKeepsLaterLines(t *testing.T) {
	lines := Decode([]byte("x\x1b]8;;url\nnext\nmore"))
	assert.Equal(t, []string{"x", "next", "more"}, texts(lines))

	lines = Decode([]byte("\x1b[31mred\x1bPq\ntail\n"))
	assert.Equal(t, []string{"red", "tail"}, texts(lines))
}

func TestDecode_RandomBytesNeverEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		b := make([]byte, 1+rng.Intn(256))
		rng.Read(b)
		require.NotPanics(t, func() {
			lines := Decode(b)
			assert.NotEmpty(t, lines, "input %q", b)
		})
	}
}

func TestLine_Render(t *testing.T) {
	l := Line{{Text: "plain"}, {Text: "red", Style: Style{Fg: "1"}}}
	out := l.Render()
	assert.Contains(t, out, "plain")
	assert.Contains(t, out, "red")
}
