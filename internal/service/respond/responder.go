// Package respond provides the deterministic, backend-free response path used
// whenever generation fails. It is total over all inputs: no external
// dependency, no error return, always a safe language-appropriate reply.
package respond

import (
	"fmt"
	"strings"

	"github.com/saharanepal/saharabot/internal/analysis/language"
	"github.com/saharanepal/saharabot/internal/analysis/risk"
	"github.com/saharanepal/saharabot/internal/model/directory"
)

// greetings are the exact tokens (after lower-casing) that earn the
// introduction reply instead of the listening acknowledgment.
var greetings = map[string]bool{
	"hi":      true,
	"hello":   true,
	"namaste": true,
	"नमस्ते":  true,
}

// Responder selects fixed safety responses keyed on message content and
// detected language.
type Responder struct {
	alertEnglish string
	alertNepali  string
}

// NewResponder builds the responder, baking the emergency contacts from the
// directory into the high-alert templates once at startup.
func NewResponder(dir directory.Store) *Responder {
	police, ok := dir.Lookup("Police")
	if !ok {
		police = "100"
	}
	helpline, ok := dir.Lookup("Child Helpline")
	if !ok {
		helpline = "1098"
	}

	english := fmt.Sprintf("🚨 This is critical. Contact: Police %s, Child Helpline %s", police, helpline)
	nepali := fmt.Sprintf("🚨 यो अत्यन्तै गम्भीर छ। तुरुन्त सम्पर्क: प्रहरी %s, बाल हेल्पलाइन %s", police, helpline)

	return &Responder{
		alertEnglish: english,
		alertNepali:  nepali + language.Separator + english,
	}
}

// Respond picks one of three fixed templates in priority order: child-abuse
// alert, greeting, or a minimal empathetic acknowledgment. Bilingual variants
// are used when the detected language is Nepali.
func (r *Responder) Respond(message string, lang language.Language) string {
	normalized := strings.ToLower(message)

	for _, trigger := range risk.ChildAbuseTriggers() {
		if strings.Contains(normalized, strings.ToLower(trigger)) {
			if lang == language.Nepali {
				return r.alertNepali
			}
			return r.alertEnglish
		}
	}

	if greetings[normalized] {
		if lang == language.Nepali {
			return "नमस्ते। म SaharaBot हुँ।" + language.Separator + "Hello. I'm SaharaBot."
		}
		return "Hello. I'm SaharaBot."
	}

	if lang == language.Nepali {
		return "म सुनिरहेको छु।" + language.Separator + "I'm listening."
	}
	return "I'm listening."
}
