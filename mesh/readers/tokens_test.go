package readers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStream(t *testing.T) {
	ts := newTokenStream(strings.NewReader("a b\n# comment\n\n  c\nd e f\n1 2\n"))

	var (
		toks  []string
		lines []int
	)
	for i := 0; i < 4; i++ {
		tok, line, ok := ts.next()
		require.True(t, ok)
		toks = append(toks, tok)
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, toks)
	assert.Equal(t, []int{1, 1, 4, 5}, lines)

	// The rest of a partially consumed line comes back first
	fields, line, ok := ts.nextFields()
	require.True(t, ok)
	assert.Equal(t, []string{"e", "f"}, fields)
	assert.Equal(t, 5, line)

	fields, line, ok = ts.nextFields()
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, fields)
	assert.Equal(t, 6, line)

	_, _, ok = ts.nextFields()
	assert.False(t, ok)
	_, _, ok = ts.next()
	assert.False(t, ok)
	assert.NoError(t, ts.Err())
}

func TestTokenStreamUnread(t *testing.T) {
	ts := newTokenStream(strings.NewReader("header\n1.0 2.0\n"))
	text, n, ok := ts.readLine()
	require.True(t, ok)
	assert.Equal(t, "header", text)
	text, n, ok = ts.readLine()
	require.True(t, ok)
	ts.unreadLine(text, n)

	tok, line, ok := ts.next()
	require.True(t, ok)
	assert.Equal(t, "1.0", tok)
	assert.Equal(t, 2, line)
}

func TestTokenStreamShapes(t *testing.T) {
	ts := newTokenStream(strings.NewReader("skip me\n0.5 1.5\n1 2\n\n3 4\n5 6 7\n"))
	_, _, ok := ts.readLine()
	require.True(t, ok)
	ts.startRecording()
	for {
		if _, _, ok = ts.nextFields(); !ok {
			break
		}
	}
	assert.Equal(t, 9, ts.totalTokens())
	n, bounded := ts.trailingIndexLines(3)
	assert.Equal(t, 1, n)
	assert.True(t, bounded)
	n, bounded = ts.trailingIndexLines(2)
	assert.Equal(t, 0, n)
	assert.True(t, bounded)
}

func TestTokenStreamShapesAllIndices(t *testing.T) {
	ts := newTokenStream(strings.NewReader("1 2 3 4\n5 6 7 8\n\n1 2 3 4\n"))
	ts.startRecording()
	for {
		if _, _, ok := ts.nextFields(); !ok {
			break
		}
	}
	n, bounded := ts.trailingIndexLines(4)
	assert.Equal(t, 3, n)
	assert.False(t, bounded)
}

func TestTokenStreamLongLine(t *testing.T) {
	values := strings.Repeat("1.0 ", 100000)
	ts := newTokenStream(strings.NewReader(values + "\n"))
	var count int
	for {
		if _, _, ok := ts.next(); !ok {
			break
		}
		count++
	}
	assert.Equal(t, 100000, count)
	assert.NoError(t, ts.Err())
}
