package chat

import "time"

// ModeID identifies a generation cost mode.
type ModeID string

const (
	ModeEco      ModeID = "eco"
	ModeBudget   ModeID = "budget"
	ModeBalanced ModeID = "balanced"
	ModeDeluxe   ModeID = "deluxe"
	ModeCouncil  ModeID = "council"
)

// DefaultMode is used when the caller supplies no mode or an unknown one.
const DefaultMode = ModeBalanced

// ModeConfig is the per-mode policy record: sampling parameters, cache TTL
// and the escalation/debate policy. Adding a mode means adding a row here,
// not a branch in the coordinator.
type ModeConfig struct {
	ID    ModeID
	Label string

	Temperature float32
	MaxTokens   int
	CacheTTL    time.Duration

	// EscalationEligible allows one extra call to the mode's escalation
	// candidate when the round's mean confidence is below EscalationThreshold.
	EscalationEligible  bool
	EscalationThreshold float64

	// DebateEligible allows one debate round after the base replies.
	DebateEligible bool
}

var modes = map[ModeID]ModeConfig{
	ModeEco: {
		ID:          ModeEco,
		Label:       "Eco",
		Temperature: 0.2,
		MaxTokens:   160,
		CacheTTL:    15 * time.Minute,
	},
	ModeBudget: {
		ID:                  ModeBudget,
		Label:               "Budget",
		Temperature:         0.5,
		MaxTokens:           256,
		CacheTTL:            15 * time.Minute,
		EscalationEligible:  true,
		EscalationThreshold: 0.35,
	},
	ModeBalanced: {
		ID:                  ModeBalanced,
		Label:               "Balanced",
		Temperature:         0.7,
		MaxTokens:           400,
		CacheTTL:            10 * time.Minute,
		EscalationEligible:  true,
		EscalationThreshold: 0.35,
	},
	ModeDeluxe: {
		ID:          ModeDeluxe,
		Label:       "Deluxe",
		Temperature: 0.8,
		MaxTokens:   600,
		CacheTTL:    5 * time.Minute,
	},
	ModeCouncil: {
		ID:             ModeCouncil,
		Label:          "Council",
		Temperature:    0.7,
		MaxTokens:      300,
		CacheTTL:       10 * time.Minute,
		DebateEligible: true,
	},
}

// ResolveMode maps a mode identifier to its configuration. Unknown or absent
// identifiers fail open to the default mode; this leniency is deliberate.
func ResolveMode(mode string) ModeConfig {
	if cfg, ok := modes[ModeID(mode)]; ok {
		return cfg
	}
	return modes[DefaultMode]
}
