package language

import (
	"strings"

	"golang.org/x/text/language"
)

type entry struct {
	code2    string   // ISO 639-1 (2-letter)
	code3    string   // ISO 639-2 primary (3-letter)
	alt3     string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display  string   // Human-readable name
	words    []string // Full word forms (e.g. "english")
	unspaced bool     // Script does not separate words with spaces
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}, false},
	{"es", "spa", "", "Spanish", []string{"spanish", "castilian"}, false},
	{"fr", "fra", "fre", "French", []string{"french"}, false},
	{"de", "deu", "ger", "German", []string{"german"}, false},
	{"it", "ita", "", "Italian", []string{"italian"}, false},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}, false},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}, true},
	{"ko", "kor", "", "Korean", []string{"korean"}, false},
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}, true},
	{"ru", "rus", "", "Russian", []string{"russian"}, false},
	{"ar", "ara", "", "Arabic", []string{"arabic"}, false},
	{"hi", "hin", "", "Hindi", []string{"hindi"}, false},
	{"nl", "nld", "dut", "Dutch", []string{"dutch", "flemish"}, false},
	{"pl", "pol", "", "Polish", []string{"polish"}, false},
	{"sv", "swe", "", "Swedish", []string{"swedish"}, false},
	{"da", "dan", "", "Danish", []string{"danish"}, false},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}, false},
	{"fi", "fin", "", "Finnish", []string{"finnish"}, false},
	{"tr", "tur", "", "Turkish", []string{"turkish"}, false},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}, false},
	{"th", "tha", "", "Thai", []string{"thai"}, true},
	{"lo", "lao", "", "Lao", []string{"lao"}, true},
	{"km", "khm", "", "Khmer", []string{"khmer"}, true},
	{"my", "mya", "bur", "Burmese", []string{"burmese", "myanmar"}, true},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// baseOfTag extracts the ISO 639-1 base language from a BCP 47 tag such as
// "pt-BR" or "zh_Hant". Returns empty when the tag does not parse or has no
// two-letter form.
func baseOfTag(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	iso := base.String()
	if len(iso) != 2 {
		return ""
	}
	return iso
}

// ToISO2 converts any recognized language code, word, or BCP 47 tag to
// ISO 639-1 (2-letter). Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	if strings.ContainsAny(code, "-_") {
		return baseOfTag(code)
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(ToISO2(code)); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// UsesWordSpacing reports whether words of the language are separated by
// spaces in running text. Unknown and empty codes are assumed spaced.
func UsesWordSpacing(code string) bool {
	if e := lookup(ToISO2(code)); e != nil {
		return !e.unspaced
	}
	return true
}
