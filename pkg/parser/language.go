package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a script language a component can be written in.
type Language int

const (
	// LanguageTypeScript represents lang="ts" and lang="tsx" scripts
	LanguageTypeScript Language = iota
	// LanguageJavaScript represents plain scripts and lang="js"/"jsx"
	LanguageJavaScript
	// LanguageUnknown represents an unsupported script language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// ScriptLang resolves the lang attribute of a <script> block.
//
// An empty attribute means JavaScript. The second result reports whether the
// TSX grammar variant is required.
func ScriptLang(attr string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(attr)) {
	case "", "js", "javascript", "jsx", "mjs", "cjs":
		return LanguageJavaScript, false
	case "ts", "typescript", "mts", "cts":
		return LanguageTypeScript, false
	case "tsx":
		return LanguageTypeScript, true
	default:
		return LanguageUnknown, false
	}
}

// DetectLanguage detects the script language of a standalone file.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	ext := filepath.Ext(filePath)
	if ext == "" {
		return LanguageUnknown
	}
	lang, _ := ScriptLang(ext[1:])
	return lang
}

// IsTSXFile checks if a file path represents a TSX file.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageTypeScript,
		LanguageJavaScript,
	}
}
