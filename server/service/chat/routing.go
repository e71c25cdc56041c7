package chat

import "strings"

// Recommended model IDs on OpenRouter, grouped by cost tier.
var (
	cheapModels = []string{
		"anthropic/claude-3-haiku",
		"openai/gpt-4o-mini",
	}
	midModels = []string{
		"anthropic/claude-3.5-sonnet",
		"openai/gpt-4o",
		"x-ai/grok-4",
	}
	premiumModels = []string{
		"openai/gpt-4.1",
		"openai/gpt-4.1-mini",
		"anthropic/claude-3.5-sonnet",
	}
)

// DefaultThreadParticipants seed newly created threads.
var DefaultThreadParticipants = []string{
	"x-ai/grok-4",
	"anthropic/claude-3.5-sonnet",
	"openai/gpt-4o-mini",
}

// DefaultParticipants returns the default participant list for a mode:
// cheap models for eco/budget, a cheap+mid mix for balanced, mid+premium for
// deluxe and a four-tier spread for council.
func DefaultParticipants(mode ModeID) []string {
	switch mode {
	case ModeEco, ModeBudget:
		return dropEmpty(cheapModels[:2])
	case ModeBalanced:
		return dropEmpty([]string{cheapModels[0], midModels[0], midModels[1]})
	case ModeDeluxe:
		return dropEmpty([]string{midModels[0], midModels[1], premiumModels[0], cheapModels[0]})
	case ModeCouncil:
		return dropEmpty([]string{cheapModels[0], midModels[0], midModels[1], premiumModels[0]})
	default:
		return dropEmpty(midModels[:2])
	}
}

// EscalationCandidate returns the single stronger model to consult when a
// round's confidence is low, or "" when the mode never escalates. Eco never
// escalates: there is no cheaper tier to justify the extra call from.
func EscalationCandidate(mode ModeID) string {
	switch mode {
	case ModeEco:
		return ""
	case ModeBudget:
		return firstNonEmpty(midModels[0])
	case ModeBalanced:
		return firstNonEmpty(midModels[1], premiumModels[0])
	case ModeDeluxe, ModeCouncil:
		return firstNonEmpty(premiumModels[0], midModels[0])
	default:
		return firstNonEmpty(midModels[0])
	}
}

// ShortModelID returns the last path segment of a full model id, used as the
// user-visible speaker name.
func ShortModelID(id string) string {
	if id == "" {
		return "model"
	}
	parts := strings.Split(id, "/")
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return id
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func dropEmpty(models []string) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
