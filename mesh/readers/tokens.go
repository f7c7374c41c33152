package readers

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// maxLineLength bounds a single physical line; Tecplot writers are free to
// put a whole variable block on one line.
const maxLineLength = 64 * 1024 * 1024

// tokenStream is a lazy view of the file as physical lines and, once the
// header is consumed, as one whitespace delimited token sequence that
// ignores line boundaries.
type tokenStream struct {
	scanner *bufio.Scanner
	line    int // 1-based number of the most recently read line

	pending     string // a line pushed back by unreadLine
	pendingLine int
	hasPending  bool

	fields   []string // tokens of the current line not yet consumed
	pos      int
	fieldsAt int // line number the fields came from

	recording bool
	shapes    []lineShape // shape of every line read while recording

	err error
}

// lineShape is what the reader remembers about a data line after the fact
type lineShape struct {
	tokens  int
	allInts bool
}

func newTokenStream(r io.Reader) *tokenStream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &tokenStream{scanner: scanner}
}

// readLine returns the next physical line, skipping # comment lines
func (ts *tokenStream) readLine() (text string, lineNum int, ok bool) {
	if ts.hasPending {
		ts.hasPending = false
		ts.record(ts.pending)
		return ts.pending, ts.pendingLine, true
	}
	for ts.scanner.Scan() {
		ts.line++
		text = ts.scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}
		ts.record(text)
		return text, ts.line, true
	}
	if ts.err == nil {
		ts.err = ts.scanner.Err()
	}
	return "", ts.line, false
}

func (ts *tokenStream) record(text string) {
	if !ts.recording {
		return
	}
	fields := strings.Fields(text)
	// No element type has more than 8 nodes, longer lines are never index lines
	shape := lineShape{tokens: len(fields), allInts: len(fields) != 0 && len(fields) <= 8}
	for _, f := range fields {
		if !shape.allInts {
			break
		}
		if _, err := strconv.Atoi(f); err != nil {
			shape.allInts = false
			break
		}
	}
	ts.shapes = append(ts.shapes, shape)
}

// startRecording begins remembering line shapes, used to tell a short data
// block from a short connectivity block once the data has run out
func (ts *tokenStream) startRecording() {
	ts.recording = true
}

// totalTokens is the token count over all recorded lines
func (ts *tokenStream) totalTokens() (n int) {
	for _, s := range ts.shapes {
		n += s.tokens
	}
	return
}

// trailingIndexLines counts the recorded lines at the end of the input that
// hold exactly npe integers, blank lines excepted. bounded reports whether a
// line of some other shape precedes that run; without one the run may just
// as well be integer data.
func (ts *tokenStream) trailingIndexLines(npe int) (n int, bounded bool) {
	for i := len(ts.shapes) - 1; i >= 0; i-- {
		s := ts.shapes[i]
		if s.tokens == 0 {
			continue
		}
		if !s.allInts || s.tokens != npe {
			return n, true
		}
		n++
	}
	return n, false
}

// unreadLine pushes one line back so the next readLine returns it again
func (ts *tokenStream) unreadLine(text string, lineNum int) {
	ts.pending, ts.pendingLine, ts.hasPending = text, lineNum, true
}

// next returns the next token, crossing line boundaries as needed
func (ts *tokenStream) next() (tok string, lineNum int, ok bool) {
	for ts.pos >= len(ts.fields) {
		text, n, ok := ts.readLine()
		if !ok {
			return "", ts.line, false
		}
		ts.fields, ts.pos, ts.fieldsAt = strings.Fields(text), 0, n
	}
	tok = ts.fields[ts.pos]
	ts.pos++
	return tok, ts.fieldsAt, true
}

// nextFields returns the unconsumed remainder of the current line if there
// is one, otherwise the tokens of the next non-blank line.
func (ts *tokenStream) nextFields() (fields []string, lineNum int, ok bool) {
	if ts.pos < len(ts.fields) {
		fields = ts.fields[ts.pos:]
		ts.pos = len(ts.fields)
		return fields, ts.fieldsAt, true
	}
	for {
		text, n, ok := ts.readLine()
		if !ok {
			return nil, ts.line, false
		}
		if fields = strings.Fields(text); len(fields) != 0 {
			ts.fields, ts.pos, ts.fieldsAt = fields, len(fields), n
			return fields, n, true
		}
	}
}

// Err reports the first read error, bufio.ErrTooLong included
func (ts *tokenStream) Err() error {
	return ts.err
}
