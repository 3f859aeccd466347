package config

const (
	defaultLogDir         = "~/.local/share/audiosrt/logs"
	defaultHistoryDB      = "~/.local/share/audiosrt/history.db"
	defaultWorkDir        = "~/.cache/audiosrt/whisperx"
	defaultBackend        = BackendWhisperX
	defaultModel          = "base"
	defaultVADMethod      = "silero"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultOpenAIModel    = "whisper-1"
	defaultMaxChars       = 50
	defaultMaxDuration    = 5.0
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultConfigLocation = "~/.config/audiosrt/config.toml"
	projectConfigName     = "audiosrt.toml"
)

// Transcription backends.
const (
	BackendWhisperX = "whisperx"
	BackendOpenAI   = "openai"
	BackendJSON     = "json"
)

func defaultExtensions() []string {
	return []string{".mp3"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
			WorkDir:   defaultWorkDir,
		},
		Transcription: Transcription{
			Backend:   defaultBackend,
			Model:     defaultModel,
			VADMethod: defaultVADMethod,
			OpenAI: OpenAI{
				BaseURL: defaultOpenAIBaseURL,
				Model:   defaultOpenAIModel,
			},
		},
		Segmentation: Segmentation{
			MaxChars:    defaultMaxChars,
			MaxDuration: defaultMaxDuration,
		},
		Batch: Batch{
			Extensions: defaultExtensions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
