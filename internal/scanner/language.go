package scanner

import (
	"path/filepath"
	"strings"
)

// Languages with a front end.
const (
	LanguageV2 = "v2"
	LanguageGo = "go"
	LanguageC  = "c"
)

// languageMap maps file extensions to front-end languages.
var languageMap = map[string]string{
	".v2": LanguageV2,
	".go": LanguageGo,
	".c":  LanguageC,
	".h":  LanguageC,
}

// DetectLanguage returns the language for a file path or bare extension.
// Returns empty string if the extension is not recognized.
func DetectLanguage(name string) string {
	ext := name
	if !strings.HasPrefix(name, ".") || strings.Count(name, ".") > 1 || strings.ContainsAny(name, `/\`) {
		ext = filepath.Ext(name)
	}
	return languageMap[strings.ToLower(ext)]
}
