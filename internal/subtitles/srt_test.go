package subtitles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.25, "00:01:01,250"},
		{3661.0, "01:01:01,000"},
		{2.0004, "00:00:02,000"},
		{2.0006, "00:00:02,001"},
		{-3, "00:00:00,000"},
		{100 * 3600, "100:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	valid := map[string]float64{
		"00:00:01,500": 1.5,
		"01:01:01,000": 3661,
		"00:00:02.250": 2.25,
		" 00:10:00,001 ": 600.001,
	}
	for input, want := range valid {
		got, err := ParseTimestamp(input)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) error: %v", input, err)
		}
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", input, got, want)
		}
	}
	for _, input := range []string{"", "00:00:01", "aa:00:01,000", "00:61:00,000", "00:00:00,1000"} {
		if _, err := ParseTimestamp(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestComposeLayout(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0, End: 2, Text: "the quick brown fox"},
		{Index: 2, Start: 2, End: 4, Text: "jumps over the lazy"},
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\nthe quick brown fox\n\n" +
		"2\n00:00:02,000 --> 00:00:04,000\njumps over the lazy\n\n"
	if got := Compose(cues); got != want {
		t.Fatalf("Compose mismatch\n got: %q\nwant: %q", got, want)
	}
	if Compose(nil) != "" {
		t.Fatal("expected empty output for no cues")
	}
}

func TestComposeDropsBlankLinesInsideText(t *testing.T) {
	got := Compose([]Cue{{Index: 1, Start: 0, End: 1, Text: "line one\n\nline two"}})
	if strings.Contains(got, "line one\n\nline two") {
		t.Fatalf("blank line survived in cue body: %q", got)
	}
	if !strings.Contains(got, "line one\nline two\n\n") {
		t.Fatalf("expected lines joined, got %q", got)
	}
}

func TestWriteAndParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	cues := []Cue{
		{Index: 1, Start: 0.5, End: 1.75, Text: "héllo wörld"},
		{Index: 2, Start: 2, End: 3.5, Text: "second"},
	}
	if err := WriteFile(path, cues); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(parsed) != len(cues) {
		t.Fatalf("expected %d cues, got %d", len(cues), len(parsed))
	}
	for i := range cues {
		if parsed[i] != cues[i] {
			t.Fatalf("cue %d = %+v, want %+v", i, parsed[i], cues[i])
		}
	}
}

func TestParseToleratesCRLFAndBOM(t *testing.T) {
	content := "\xef\xbb\xbf1\r\n00:00:01,000 --> 00:00:02,000 X1:10\r\nHello\r\nthere\r\n\r\nnot-a-number\r\n00:00:03,000 --> 00:00:04,000\r\nskipped\r\n\r\n2\r\n00:00:05,000 --> 00:00:06,000\r\nlast\r\n"
	cues, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "Hello\nthere" || cues[1].Start != 5 {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateSRTContent(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	good := write("good.srt", Compose([]Cue{{1, 0, 2, "a"}, {2, 2, 9.5, "b"}}))
	if issues := ValidateSRTContent(good, 10); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}

	empty := write("empty.srt", "\n\n")
	if issues := ValidateSRTContent(empty, 0); len(issues) != 1 || issues[0] != IssueEmptyFile {
		t.Fatalf("expected empty issue, got %v", issues)
	}

	drift := write("drift.srt", Compose([]Cue{{1, 0, 2, "a"}}))
	issues := ValidateSRTContent(drift, 60)
	if len(issues) != 1 || !strings.HasPrefix(issues[0], "duration_mismatch") {
		t.Fatalf("expected duration mismatch, got %v", issues)
	}

	missing := ValidateSRTContent(filepath.Join(dir, "nope.srt"), 0)
	if len(missing) != 1 || !strings.HasPrefix(missing[0], "read_error") {
		t.Fatalf("expected read error, got %v", missing)
	}
}

func TestValidateStructuralIssues(t *testing.T) {
	cases := []struct {
		name   string
		cues   []Cue
		prefix string
	}{
		{"gap", []Cue{{1, 0, 1, "a"}, {3, 1, 2, "b"}}, "index_gap"},
		{"inverted", []Cue{{1, 2, 1, "a"}}, "inverted_cue"},
		{"overlap", []Cue{{1, 0, 2, "a"}, {2, 1.5, 3, "b"}}, "overlapping_cues"},
		{"zero", []Cue{{1, 0, 0, "a"}}, IssueNoValidTimestamps},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := Validate(tc.cues, 0)
			found := false
			for _, issue := range issues {
				if strings.HasPrefix(issue, tc.prefix) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s issue, got %v", tc.prefix, issues)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	first, last := Bounds([]Cue{{1, 3, 4, "b"}, {2, 1, 2, "a"}})
	if first != 1 || last != 4 {
		t.Fatalf("Bounds = %v, %v", first, last)
	}
	if f, l := Bounds(nil); f != 0 || l != 0 {
		t.Fatalf("Bounds(nil) = %v, %v", f, l)
	}
}
