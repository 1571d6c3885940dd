package parse_test

import (
	"strings"
	"testing"

	"github.com/packtext/manifest/internal/errors"
	"github.com/packtext/manifest/internal/parse"
	"github.com/packtext/manifest/internal/record"
	"github.com/packtext/manifest/internal/scan"
)

func newParser(input string, filter parse.Filter) *parse.Parser {
	return parse.NewParser("test.manifest", scan.NewScanner(strings.NewReader(input), nil), filter)
}

type pair struct {
	name  string
	value string
}

// drain collects records until the end-of-stream sentinel.
func drain(t *testing.T, p *parse.Parser) []pair {
	t.Helper()
	var pairs []pair
	empties := 0
	for i := 0; i < 100; i++ {
		rec, err := p.Next()
		if err != nil {
			t.Fatalf("record=%d unexpected error: %s", i, err)
		}
		pairs = append(pairs, pair{rec.Name, rec.Value})
		if rec.Empty() {
			empties++
			if empties == 2 {
				return pairs
			}
		} else {
			empties = 0
		}
	}
	t.Fatal("no end of stream after 100 records")
	return nil
}

type parseTest struct {
	name  string
	input string
	pairs []pair
}

var parseTests = []parseTest{
	{
		name:  "single",
		input: ":1\na: b\n",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"", ""}, {"", ""}},
	},
	{
		name:  "no-trailing-newline",
		input: ":1\na: b",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"", ""}, {"", ""}},
	},
	{
		name:  "comment-and-blank",
		input: ":1\n# comment\na: b\n\nc:d\n",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"c", "d"}, {"", ""}, {"", ""}},
	},
	{
		name:  "name-whitespace",
		input: ":1\n  a : b\n",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"", ""}, {"", ""}},
	},
	{
		name:  "trailing-space-trimmed",
		input: ":1\na: b   \n",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"", ""}, {"", ""}},
	},
	{
		// Only the single separating space is insignificant; further
		// whitespace after the ':' belongs to the value.
		name:  "second-space-kept",
		input: ":1\na:  b\n",
		pairs: []pair{{"", "1"}, {"a", " b"}, {"", ""}, {"", ""}},
	},
	{
		name:  "tab-after-colon-kept",
		input: ":1\na:\tb\n",
		pairs: []pair{{"", "1"}, {"a", "\tb"}, {"", ""}, {"", ""}},
	},
	{
		name:  "escapes",
		input: ":1\na: \\_x\\_\nb: \\-\nc: a\\\\b\n",
		pairs: []pair{{"", "1"}, {"a", " x "}, {"b", ""}, {"c", `a\b`}, {"", ""}, {"", ""}},
	},
	{
		name:  "empty-value",
		input: ":1\na:\nb: c\n",
		pairs: []pair{{"", "1"}, {"a", ""}, {"b", "c"}, {"", ""}, {"", ""}},
	},
	{
		name:  "multiline",
		input: ":1\nk:\\\nline1\nline2\n\\\nz: w\n",
		pairs: []pair{{"", "1"}, {"k", "line1\nline2"}, {"z", "w"}, {"", ""}, {"", ""}},
	},
	{
		name:  "multiline-empty",
		input: ":1\nk:\\\n\\\n",
		pairs: []pair{{"", "1"}, {"k", ""}, {"", ""}, {"", ""}},
	},
	{
		name:  "multiline-hash-verbatim",
		input: ":1\nk:\\\n# not a comment\n\\\n",
		pairs: []pair{{"", "1"}, {"k", "# not a comment"}, {"", ""}, {"", ""}},
	},
	{
		name:  "multiline-terminator-at-eof",
		input: ":1\na:\\\nxy\nz\n\\",
		pairs: []pair{{"", "1"}, {"a", "xy\nz"}, {"", ""}, {"", ""}},
	},
	{
		name:  "two-documents",
		input: ":1\na: b\n\n\n:2\nc: d\n",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"", ""}, {"", "2"}, {"c", "d"}, {"", ""}, {"", ""}},
	},
	{
		name:  "comment-only-lines",
		input: "# head\n:1\n# mid\na: b\n# tail\n",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"", ""}, {"", ""}},
	},
	{
		name:  "crlf",
		input: ":1\r\na: b\r\n",
		pairs: []pair{{"", "1"}, {"a", "b"}, {"", ""}, {"", ""}},
	},
	{
		name:  "empty-stream",
		input: "",
		pairs: []pair{{"", ""}, {"", ""}},
	},
	{
		name:  "blank-stream",
		input: "\n \n",
		pairs: []pair{{"", ""}, {"", ""}},
	},
	{
		name:  "hash-in-value",
		input: ":1\na: b # not a comment\n",
		pairs: []pair{{"", "1"}, {"a", "b # not a comment"}, {"", ""}, {"", ""}},
	},
}

func TestParserNext(t *testing.T) {
	for _, test := range parseTests {
		p := newParser(test.input, nil)
		got := drain(t, p)
		if len(got) != len(test.pairs) {
			t.Fatalf("test=%s got=%v want=%v", test.name, got, test.pairs)
		}
		for i := range got {
			if got[i] != test.pairs[i] {
				t.Errorf("test=%s record=%d got=%+v want=%+v", test.name, i, got[i], test.pairs[i])
			}
		}
	}
}

func TestParserVersion(t *testing.T) {
	p := newParser(":7\na: b\n", nil)
	if _, err := p.Next(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v := p.Version(); v != "7" {
		t.Errorf("got=%q want=%q", v, "7")
	}
}

func TestParserPositions(t *testing.T) {
	const input = ":1\na: b\n"
	p := newParser(input, nil)

	ver, err := p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ver.StartPos != 0 || ver.ColonPos != 0 || ver.EndPos != 2 {
		t.Errorf("version positions got=%d/%d/%d want=0/0/2", ver.StartPos, ver.ColonPos, ver.EndPos)
	}

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if rec.StartPos != 3 || rec.ColonPos != 4 || rec.EndPos != 7 {
		t.Errorf("record positions got=%d/%d/%d want=3/4/7", rec.StartPos, rec.ColonPos, rec.EndPos)
	}
	if rec.NameLine != 2 || rec.NameColumn != 1 {
		t.Errorf("name position got=%d:%d want=2:1", rec.NameLine, rec.NameColumn)
	}
	if rec.ValueLine != 2 || rec.ValueColumn != 4 {
		t.Errorf("value position got=%d:%d want=2:4", rec.ValueLine, rec.ValueColumn)
	}
}

// TestParserPositionAccuracy checks that the raw bytes between a record's
// colon and end decode to exactly its value.
func TestParserPositionAccuracy(t *testing.T) {
	inputs := []string{
		":1\na: b\n",
		":1\na: \\_x\\_\nlong: \\-\n",
		":1\nk:\\\nline1\nline2\n\\\nz: w\n",
		":1\nmid: value  \nafter: x\n",
	}
	for _, input := range inputs {
		p := newParser(input, nil)
		for {
			rec, err := p.Next()
			if err != nil {
				t.Fatalf("input=%q unexpected error: %s", input, err)
			}
			if rec.Empty() {
				break
			}
			if rec.Name == "" {
				continue
			}
			raw := input[rec.ColonPos+1 : rec.EndPos]
			got, err := decodeRaw(raw)
			if err != nil {
				t.Fatalf("input=%q name=%q decode error: %s", input, rec.Name, err)
			}
			if got != rec.Value {
				t.Errorf("input=%q name=%q got=%q want=%q", input, rec.Name, got, rec.Value)
			}
		}
	}
}

// decodeRaw re-applies the value decoding rules to a raw colon-to-end byte
// range.
func decodeRaw(raw string) (string, error) {
	if rest, ok := strings.CutPrefix(raw, record.ContinuationLine+"\n"); ok {
		rest = strings.TrimSuffix(rest, "\n")
		return strings.TrimSuffix(rest, "\n"+record.ContinuationLine), nil
	}
	rest := strings.TrimPrefix(raw, " ")
	return record.Unescape(strings.TrimRight(rest, " \t"))
}

type errorTest struct {
	name  string
	input string
	desc  string
}

var errorTests = []errorTest{
	{"no-version", "a: b\n", "expected document start"},
	{"empty-version", ":\na: b\n", "missing format version"},
	{"missing-colon", ":1\nab\n", "missing ':' separator"},
	{"empty-name", ":1\n: v\n", "empty name"},
	{"unterminated-long", ":1\nk:\\\nabc", "unterminated multi-line value"},
	{"bad-escape", ":1\na: x\\qy\n", "unknown escape sequence"},
	{"bare-marker-after-text", ":1\na: xy\\\n", "unexpected continuation marker"},
	{"content-after-end", ":1\na: b\n\n\nc: d\n", "expected document start"},
}

func TestParserErrors(t *testing.T) {
	for _, test := range errorTests {
		p := newParser(test.input, nil)
		var err error
		for i := 0; i < 20 && err == nil; i++ {
			_, err = p.Next()
		}
		if err == nil {
			t.Errorf("test=%s expected error", test.name)
			continue
		}
		if !errors.IsParse(err) {
			t.Errorf("test=%s got %T want *errors.ParseError", test.name, err)
			continue
		}
		if !strings.Contains(err.Error(), test.desc) {
			t.Errorf("test=%s got=%q want substring %q", test.name, err, test.desc)
		}
		// The error is sticky.
		if _, again := p.Next(); again != err {
			t.Errorf("test=%s sticky error got=%v want=%v", test.name, again, err)
		}
	}
}

type nameFilter struct {
	reject string
}

func (f nameFilter) Accept(r *record.Record) bool {
	return r.Name != f.reject
}

func TestParserFilter(t *testing.T) {
	p := newParser(":1\na: b\nskip: me\nc: d\n", nameFilter{reject: "skip"})
	got := drain(t, p)
	want := []pair{{"", "1"}, {"a", "b"}, {"c", "d"}, {"", ""}, {"", ""}}
	if len(got) != len(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("record=%d got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestParserStrictInvalidUTF8(t *testing.T) {
	s := scan.NewScanner(strings.NewReader(":1\na: \xffb\n"), scan.UTF8Validator)
	p := parse.NewParser("bad.manifest", s, nil)
	var err error
	for i := 0; i < 5 && err == nil; i++ {
		_, err = p.Next()
	}
	if !errors.IsScan(err) {
		t.Fatalf("got=%v want scan error", err)
	}
}

func TestParserCRLFPositions(t *testing.T) {
	const input = ":1\r\na: b\r\nc: d\r\n"
	p := newParser(input, nil)
	p.Next() // version
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// EndPos points at the '\r' so splicing keeps the full terminator.
	if input[rec.EndPos] != '\r' {
		t.Errorf("end position got=%q want=%q", input[rec.EndPos], '\r')
	}
	if rec.StartPos != 4 || rec.ColonPos != 5 || rec.EndPos != 8 {
		t.Errorf("positions got=%d/%d/%d want=4/5/8", rec.StartPos, rec.ColonPos, rec.EndPos)
	}
}
