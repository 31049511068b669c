package generator

import (
	"strings"

	"github.com/memodeck/backend/internal/domain/card"
)

// StyleProfile describes what the folder's existing cards look like, so
// generated cards blend in instead of switching register mid-deck.
type StyleProfile struct {
	Style   string  // predominant question type
	Length  string  // expected answer length
	Samples []Draft // up to maxSamples representative cards shown to the model
}

const maxSamples = 4

// styleRule maps front-text keywords to a question-type description. Rules
// are checked in order; the first match wins.
type styleRule struct {
	keywords []string
	style    string
}

var styleRules = []styleRule{
	{[]string{"what is", "what does", "define", "definition of"},
		"concept definition (What is X? -> a defining answer)"},
	{[]string{"difference between", "compare", " vs ", "versus"},
		"concept comparison (Difference between X and Y? -> a clear distinction)"},
	{[]string{"calculate", "solve", "how much", "formula", "equation"},
		"numeric exercise or formula (Formula for X? -> formula with a short explanation)"},
	{[]string{"true or false"},
		"true or false (statement -> True/False plus a short justification)"},
	{[]string{"fill in", "___", "..."},
		"sentence completion (incomplete sentence -> the missing word or phrase)"},
	{[]string{"why", "explain why", "how does", "how come"},
		"causal explanation (Why X? -> a concise explanation)"},
	{[]string{"list", "which are", "name the", "enumerate"},
		"enumeration (Which are X? -> a short bulleted list)"},
}

const defaultStyle = "direct question with a concise answer"

// AnalyzeStyle inspects the folder's cards and returns the predominant
// question style, the calibrated answer length, and a few samples.
func AnalyzeStyle(cards []card.Card) StyleProfile {
	if len(cards) == 0 {
		return StyleProfile{
			Style:  defaultStyle,
			Length: "short (1-2 lines)",
		}
	}

	var fronts strings.Builder
	for _, c := range cards {
		fronts.WriteString(strings.ToLower(c.Front))
		fronts.WriteByte(' ')
	}
	allFronts := fronts.String()

	style := defaultStyle
	for _, rule := range styleRules {
		if containsAny(allFronts, rule.keywords) {
			style = rule.style
			break
		}
	}

	totalBackLen := 0
	for _, c := range cards {
		totalBackLen += len(c.Back)
	}
	avg := totalBackLen / len(cards)

	var length string
	switch {
	case avg < 60:
		length = "very short (max 1 line)"
	case avg < 130:
		length = "short (1-2 lines)"
	default:
		length = "medium (2-4 lines)"
	}

	samples := make([]Draft, 0, maxSamples)
	for _, c := range cards {
		if len(samples) == maxSamples {
			break
		}
		samples = append(samples, Draft{Front: c.Front, Back: c.Back})
	}

	return StyleProfile{Style: style, Length: length, Samples: samples}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
