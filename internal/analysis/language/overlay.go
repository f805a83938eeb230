package language

import "strings"

// Separator divides the Nepali rendering from the English original in a
// bilingual response.
const Separator = "\n\n---\n\n"

type phrasePair struct {
	english string
	nepali  string
}

// phraseTable holds the fixed safety phrases the overlay can render.
// Replacement runs top to bottom, so table order is part of the contract.
var phraseTable = []phrasePair{
	{"I hear you", "म तपाईंलाई सुन्दैछु"},
	{"I'm listening", "म सुनिरहेको छु"},
	{"your safety", "तपाईंको सुरक्षा"},
	{"Are you safe", "के तपाईं सुरक्षित हुनुहुन्छ"},
	{"This is serious", "यो गम्भीर छ"},
	{"This is a crime", "यो अपराध हो"},
	{"Please call", "कृपया फोन गर्नुहोस्"},
	{"Police", "प्रहरी"},
	{"Child Helpline", "बाल हेल्पलाइन"},
}

// Overlay substitutes known fixed phrases in an English response with their
// Nepali renderings. This is greedy surface replacement, not translation:
// a phrase is replaced wherever it occurs as a substring, which can mangle
// unrelated text containing it. Accepted limitation; the caller always keeps
// the English original alongside.
func Overlay(english string) string {
	result := english
	for _, pair := range phraseTable {
		result = strings.ReplaceAll(result, pair.english, pair.nepali)
	}
	return result
}

// Bilingual renders a response for Nepali speakers: the phrase-substituted
// Nepali text first, then the separator, then the untouched English original
// so meaning is never lost to a partial substitution.
func Bilingual(english string) string {
	return Overlay(english) + Separator + english
}
