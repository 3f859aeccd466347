package subtitles

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Compose renders cues as SubRip text. Every block, including the last, is
// followed by a blank line.
func Compose(cues []Cue) string {
	var sb strings.Builder
	for _, cue := range cues {
		sb.WriteString(strconv.Itoa(cue.Index))
		sb.WriteByte('\n')
		sb.WriteString(FormatTimestamp(cue.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(cue.End))
		sb.WriteByte('\n')
		sb.WriteString(cueBody(cue.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// cueBody drops blank lines inside cue text since a blank line terminates an
// SRT block.
func cueBody(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// WriteFile composes cues and writes them to path in one call. The file is
// UTF-8 without a byte order mark.
func WriteFile(path string, cues []Cue) error {
	return os.WriteFile(path, []byte(Compose(cues)), 0o644)
}

// Parse reads SubRip blocks from r. Blocks without a numeric index or a
// parseable timing line are skipped.
func Parse(r io.Reader) ([]Cue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	var (
		cues  []Cue
		block []string
	)
	flush := func() {
		if cue, ok := parseBlock(block); ok {
			cues = append(cues, cue)
		}
		block = block[:0]
	}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan srt: %w", err)
	}
	flush()
	return cues, nil
}

// ParseFile reads and parses the SubRip file at path.
func ParseFile(path string) ([]Cue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

func parseBlock(lines []string) (Cue, bool) {
	if len(lines) < 2 {
		return Cue{}, false
	}
	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Cue{}, false
	}
	parts := strings.Split(lines[1], "-->")
	if len(parts) != 2 {
		return Cue{}, false
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Cue{}, false
	}
	// Some writers append position hints after the end timestamp.
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return Cue{}, false
	}
	end, err := ParseTimestamp(endField[0])
	if err != nil {
		return Cue{}, false
	}
	return Cue{
		Index: index,
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], "\n"),
	}, true
}
