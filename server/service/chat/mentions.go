package chat

import (
	"regexp"
	"strings"
)

// mentionAliases lets users address models by name: each key is an alias
// group whose values are matched literally against the message text.
var mentionAliases = map[string][]string{
	"grok":   {"grok", "grok-4"},
	"claude": {"claude", "sonnet", "haiku"},
	"gpt4o":  {"gpt-4o", "gpt-4o-mini"},
	"gpt41":  {"gpt-4.1", "gpt-4.1-mini"},
	"gpt":    {"gpt"},
}

var (
	tokenSplitRe = regexp.MustCompile(`[^a-z0-9+_.-]+`)
	atTokenRe    = regexp.MustCompile(`@([A-Za-z0-9._-]+)`)
)

// FilterByMentions narrows the participant list when the message text
// addresses specific models by alias or @token. With no mention terms the
// list is returned unchanged; if filtering would leave nobody, the match is
// discarded and the full list returned, so a failed mention never silently
// addresses zero participants.
func FilterByMentions(text string, participants []string) []string {
	terms := map[string]struct{}{}
	for _, alias := range extractMentionAliases(text) {
		for _, term := range mentionAliases[alias] {
			terms[strings.ToLower(term)] = struct{}{}
		}
	}
	for _, tok := range extractAtTokens(text) {
		terms[tok] = struct{}{}
	}
	if len(terms) == 0 {
		return participants
	}

	var filtered []string
	for _, fullID := range participants {
		sid := strings.ToLower(ShortModelID(fullID))
		for term := range terms {
			if strings.Contains(sid, term) {
				filtered = append(filtered, fullID)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return participants
	}
	return filtered
}

// extractMentionAliases returns the alias group keys present in the text,
// either as a whole token or as a raw substring.
func extractMentionAliases(text string) []string {
	lower := strings.ToLower(text)
	tokens := tokenize(text)
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	var hits []string
	for key, vals := range mentionAliases {
		for _, v := range vals {
			if _, ok := tokenSet[v]; ok || strings.Contains(lower, v) {
				hits = append(hits, key)
				break
			}
		}
	}
	return hits
}

func extractAtTokens(text string) []string {
	var out []string
	for _, m := range atTokenRe.FindAllStringSubmatch(text, -1) {
		if tok := strings.ToLower(m[1]); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func tokenize(text string) []string {
	normalized := strings.ToLower(text)
	normalized = strings.NewReplacer("@", " ", "#", " ").Replace(normalized)

	var out []string
	for _, tok := range tokenSplitRe.Split(normalized, -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
