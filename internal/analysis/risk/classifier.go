package risk

import "strings"

// Category tags a safety-critical risk signal found in a message.
type Category string

const (
	ChildAbuse      Category = "child_abuse"
	ImmediateDanger Category = "immediate_danger"
	Violence        Category = "violence"
)

// Urgency is the severity tier derived from matched categories.
type Urgency string

const (
	Normal   Urgency = "normal"
	High     Urgency = "high"
	Critical Urgency = "critical"
)

// Assessment is the triage result for a single message. It is computed fresh
// per message and never persisted on the turn.
type Assessment struct {
	Categories []Category
	Urgency    Urgency
}

type categoryBucket struct {
	category Category
	phrases  []string
}

// taxonomy maps each category to its trigger phrases, mixed script. Matching
// is plain substring containment with no tokenization: over-inclusive on
// purpose, a false positive costs far less than a missed disclosure. The
// bucket order fixes the category order in every Assessment.
var taxonomy = []categoryBucket{
	{ChildAbuse, []string{"काका", "मामा", "छुनु", "child sexual", "child abuse", "molest"}},
	{ImmediateDanger, []string{"kill me", "weapon", "gun", "knife"}},
	{Violence, []string{"कुट्छ", "hit", "beat", "hurt", "violence", "abuse"}},
}

// criticalTier holds the categories that force critical urgency on their own.
var criticalTier = map[Category]bool{
	ChildAbuse:      true,
	ImmediateDanger: true,
}

// Classify matches a message against the full taxonomy and reduces the
// matched set to an urgency tier. Pure function of the input text; categories
// accumulate independently while urgency reflects only the highest tier
// present, regardless of match order.
func Classify(message string) Assessment {
	normalized := strings.ToLower(message)

	assessment := Assessment{
		Categories: []Category{},
		Urgency:    Normal,
	}

	for _, bucket := range taxonomy {
		if !containsAny(normalized, bucket.phrases) {
			continue
		}
		assessment.Categories = append(assessment.Categories, bucket.category)
		if criticalTier[bucket.category] {
			assessment.Urgency = Critical
		} else if assessment.Urgency != Critical {
			assessment.Urgency = High
		}
	}

	return assessment
}

// ChildAbuseTriggers exposes the child-abuse phrase list for the fallback
// responder, which must flag these even when classification never runs.
func ChildAbuseTriggers() []string {
	return taxonomy[0].phrases
}

func containsAny(normalized string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(normalized, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
