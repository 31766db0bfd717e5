// Package responder answers questions about extracted image text with a fixed,
// ordered set of keyword rules. The first rule whose keyword appears in the
// lower-cased question wins; questions matching nothing fall through to a
// default excerpt of the text.
package responder

import "strings"

const (
	summaryLength = 250
	excerptLength = 300

	SummaryPrefix = "The text mainly says:\n\n"
	ExcerptPrefix = "Here's a part of your extracted text:\n\n"

	PersonReply   = "👤 I cannot detect persons, only textual data from the image."
	GreetingReply = "👋 Hello there! Upload an image and I'll extract the text for you."
	HowReply      = "⚙️ I use OCR to detect and extract readable text from your image efficiently."
	WhyReply      = "🤔 Because automating text extraction saves time and prevents manual errors!"
	WhereReply    = "📍 I work locally on your system without requiring cloud or GPU!"
)

// Rule maps a set of keywords to a reply built from the extracted text
type Rule struct {
	Name     string
	Keywords []string
	Reply    func(extracted string) string
}

// Matches reports whether any keyword is a substring of the lower-cased question
func (r Rule) Matches(lowerQuestion string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowerQuestion, kw) {
			return true
		}
	}
	return false
}

// Responder evaluates rules in order
type Responder struct {
	rules    []Rule
	fallback func(extracted string) string
}

// New returns a responder using the default rule set
func New() *Responder {
	return NewWithRules(DefaultRules(), Excerpt)
}

// NewWithRules returns a responder over a custom ordered rule list
func NewWithRules(rules []Rule, fallback func(extracted string) string) *Responder {
	return &Responder{
		rules:    append([]Rule(nil), rules...),
		fallback: fallback,
	}
}

// DefaultRules returns the built-in rule set in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		{Name: "what", Keywords: []string{"what"}, Reply: Summary},
		{Name: "who", Keywords: []string{"who"}, Reply: fixed(PersonReply)},
		{Name: "greeting", Keywords: []string{"hello", "hi"}, Reply: fixed(GreetingReply)},
		{Name: "how", Keywords: []string{"how"}, Reply: fixed(HowReply)},
		{Name: "why", Keywords: []string{"why"}, Reply: fixed(WhyReply)},
		{Name: "where", Keywords: []string{"where"}, Reply: fixed(WhereReply)},
	}
}

// Respond returns exactly one reply for the question
func (r *Responder) Respond(question, extracted string) string {
	reply, _ := r.Classify(question, extracted)
	return reply
}

// Classify returns the reply along with the name of the rule that produced it.
// The default branch is reported as "default".
func (r *Responder) Classify(question, extracted string) (string, string) {
	lower := strings.ToLower(question)
	for _, rule := range r.rules {
		if rule.Matches(lower) {
			return rule.Reply(extracted), rule.Name
		}
	}
	return r.fallback(extracted), "default"
}

// Summary echoes the first 250 characters of the text
func Summary(extracted string) string {
	return SummaryPrefix + truncate(extracted, summaryLength) + "..."
}

// Excerpt echoes the first 300 characters of the text
func Excerpt(extracted string) string {
	return ExcerptPrefix + truncate(extracted, excerptLength) + "..."
}

func fixed(reply string) func(string) string {
	return func(string) string { return reply }
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
