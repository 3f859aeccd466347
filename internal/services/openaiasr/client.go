package openaiasr

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	langpkg "audiosrt/internal/language"
	"audiosrt/internal/logging"
	"audiosrt/internal/services"
	"audiosrt/internal/transcript"
)

// DefaultModel is the hosted OpenAI speech model.
const DefaultModel = openai.Whisper1

// Config holds endpoint settings.
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string
}

type audioAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Client implements transcript.Transcriber over the OpenAI audio API.
type Client struct {
	cfg    Config
	api    audioAPI
	logger *slog.Logger
}

// New builds a client for cfg. An empty BaseURL targets api.openai.com.
func New(cfg Config, logger *slog.Logger) *Client {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		clientCfg.BaseURL = base
	}
	return &Client{
		cfg:    cfg,
		api:    openai.NewClientWithConfig(clientCfg),
		logger: logging.NewComponentLogger(logger, "openai-asr"),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Transcribe implements transcript.Transcriber.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return transcript.Transcript{}, services.Wrap(services.ErrNotFound, "openai-asr", "stat input", "Audio file not found", err)
		}
		return transcript.Transcript{}, services.Wrap(services.ErrTransient, "openai-asr", "stat input", "Audio file not readable", err)
	}

	req := openai.AudioRequest{
		Model:    c.cfg.Model,
		FilePath: audioPath,
		Language: langpkg.ToISO2(c.cfg.Language),
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
			openai.TranscriptionTimestampGranularitySegment,
		},
	}

	started := time.Now()
	resp, err := c.api.CreateTranscription(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return transcript.Transcript{}, services.Wrap(services.ErrTransient, "openai-asr", "transcribe", "Transcription cancelled", ctx.Err())
		}
		return transcript.Transcript{}, services.Wrap(services.ErrExternalTool, "openai-asr", "transcribe", "Transcription request failed", err)
	}

	result, err := convertResponse(resp, c.cfg.Language)
	if err != nil {
		return transcript.Transcript{}, err
	}
	c.logger.Info("openai transcription complete",
		logging.String("model", c.cfg.Model),
		logging.String("language", result.Language),
		logging.Int("segments", len(result.Segments)),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return result, nil
}

type rawSegment struct {
	text       string
	start, end float64
}

func convertResponse(resp openai.AudioResponse, fallbackLanguage string) (transcript.Transcript, error) {
	lang := langpkg.ToISO2(resp.Language)
	if lang == "" {
		lang = langpkg.ToISO2(fallbackLanguage)
	}

	segs := make([]rawSegment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segs = append(segs, rawSegment{text: s.Text, start: s.Start, end: s.End})
	}
	if len(segs) == 0 && strings.TrimSpace(resp.Text) != "" {
		end := resp.Duration
		for _, w := range resp.Words {
			if w.End > end {
				end = w.End
			}
		}
		segs = append(segs, rawSegment{text: resp.Text, start: 0, end: end})
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].start < segs[j].start })

	words := make([]transcript.Word, 0, len(resp.Words))
	for _, w := range resp.Words {
		start, end := w.Start, w.End
		if start < 0 {
			start = 0
		}
		if end < start {
			end = start
		}
		words = append(words, transcript.Word{Text: w.Word, Start: start, End: end})
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Start < words[j].Start })
	words = transcript.SpaceWords(words, langpkg.UsesWordSpacing(lang))

	grouped := assignWords(segs, words, len(resp.Words) > 0)

	out := transcript.Transcript{Language: lang, Duration: resp.Duration}
	for i, s := range segs {
		seg, err := transcript.NewSegment(s.text, s.start, s.end, grouped[i])
		if err != nil {
			return transcript.Transcript{}, services.Wrap(services.ErrValidation, "openai-asr", "decode segment", "Invalid segment timing", err)
		}
		out.Segments = append(out.Segments, seg)
	}
	return out, nil
}

// assignWords attaches each word to the last segment starting at or before
// the word's midpoint. Without word timings every segment gets nil words.
func assignWords(segs []rawSegment, words []transcript.Word, haveWords bool) [][]transcript.Word {
	grouped := make([][]transcript.Word, len(segs))
	if !haveWords {
		return grouped
	}
	for i := range grouped {
		grouped[i] = []transcript.Word{}
	}
	for _, w := range words {
		mid := w.Start + (w.End-w.Start)/2
		idx := sort.Search(len(segs), func(i int) bool { return segs[i].start > mid }) - 1
		if idx < 0 {
			idx = 0
		}
		if idx < len(grouped) {
			grouped[idx] = append(grouped[idx], w)
		}
	}
	return grouped
}
