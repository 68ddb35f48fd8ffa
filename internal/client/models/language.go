package models

import "strings"

type Language struct {
	Code string
	Name string
}

// Languages is the set offered by the translate screen.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "hi", Name: "Hindi"},
	{Code: "ar", Name: "Arabic"},
}

var (
	nameByCode = make(map[string]string, len(Languages))
	codeByName = make(map[string]string, len(Languages))
)

func init() {
	for _, l := range Languages {
		nameByCode[l.Code] = l.Name
		codeByName[strings.ToLower(l.Name)] = l.Code
	}
}

// NormalizeLanguage maps a code or a display name (any case) to the
// canonical code. Unknown values come back trimmed and lower-cased so legacy
// data still round-trips.
func NormalizeLanguage(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	if _, ok := nameByCode[v]; ok {
		return v
	}
	if code, ok := codeByName[v]; ok {
		return code
	}
	return v
}

// LanguageName resolves a code to its display name, falling back to the code.
func LanguageName(code string) string {
	if name, ok := nameByCode[NormalizeLanguage(code)]; ok {
		return name
	}
	return code
}

func IsKnownLanguage(s string) bool {
	_, ok := nameByCode[NormalizeLanguage(s)]
	return ok
}
