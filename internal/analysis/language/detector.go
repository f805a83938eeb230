package language

import "unicode"

// Language is the detected script of a user message.
type Language string

const (
	English Language = "english"
	Nepali  Language = "nepali"
)

// nepaliThreshold is the Devanagari fraction of alphabetic runes above which
// a message is treated as Nepali.
const nepaliThreshold = 0.3

// Detect classifies a message as Nepali or English from script composition.
// It counts runes in the Devanagari block against all alphabetic runes; with
// no alphabetic signal at all it defaults to English. This is a cheap proxy
// for safety routing, not language identification: transliterated or
// mixed-script text lands on whichever script count dominates.
func Detect(text string) Language {
	nepaliRunes := 0
	letters := 0
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			nepaliRunes++
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}

	if letters == 0 {
		return English
	}
	if float64(nepaliRunes)/float64(letters) > nepaliThreshold {
		return Nepali
	}
	return English
}
