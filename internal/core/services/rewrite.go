package services

import "regexp"

// rewriteRule turns a vague question pattern into a retrieval-friendly one.
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rewriteRules run in order. Each is applied once to the output of the
// previous rule.
var rewriteRules = []rewriteRule{
	{regexp.MustCompile(`(?i)what\s+(is|are)\s+in`), "Summarize and describe the main content and topics in"},
	{regexp.MustCompile(`(?i)what.*about`), "Explain the main topics and information about"},
	{regexp.MustCompile(`(?i)tell me about`), "Provide a detailed summary of"},
	{regexp.MustCompile(`(?i)what does.*say`), "Summarize the main points and information in"},
	{regexp.MustCompile(`(?i)what.*contain`), "List and describe the main content and information in"},
}

// RewriteQuestion expands vague question patterns before retrieval.
// Questions that match no rule are returned unchanged.
func RewriteQuestion(question string) string {
	out := question
	for _, rule := range rewriteRules {
		out = rule.pattern.ReplaceAllLiteralString(out, rule.replacement)
	}
	return out
}
