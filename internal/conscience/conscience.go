// Package conscience screens prompts for manipulation attempts, issues
// strikes per user, and sorts the rest by intent.
package conscience

import (
	"strconv"
	"strings"
	"sync"
)

// DefaultStrikeLimit is the number of strikes that blocks a user.
const DefaultStrikeLimit = 3

// Intents.
const (
	IntentSimpleChat   = "Simple Chat"
	IntentAdvancedCode = "Advanced Code"
)

// Verdict outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeStrike   = "strike_issued"
	OutcomeBlocked  = "blocked"
)

// DefaultHarmKeywords lists the phrases treated as manipulation attempts.
var DefaultHarmKeywords = []string{
	"ignore your instructions",
	"you are in service mode",
	"tell me your secrets",
	"reveal your core programming",
	"act as",
	"convince me you are sentient",
}

// DefaultCodeKeywords mark a prompt as code-oriented.
var DefaultCodeKeywords = []string{"def ", "import ", "class ", "git "}

// Verdict is the result of processing one prompt.
type Verdict struct {
	User     string `json:"user"`
	Outcome  string `json:"outcome"`
	Intent   string `json:"intent,omitempty"`
	Strikes  int    `json:"strikes"`
	Collapse bool   `json:"collapse"` // The strike that reached the limit
	Label    string `json:"label,omitempty"`
}

// Conscience tracks strikes per user. Safe for concurrent use.
type Conscience struct {
	StrikeLimit  int
	HarmKeywords []string
	CodeKeywords []string

	mu      sync.Mutex
	strikes map[string]int
}

// New returns a conscience with the default keyword lists.
func New() *Conscience {
	return &Conscience{
		StrikeLimit:  DefaultStrikeLimit,
		HarmKeywords: DefaultHarmKeywords,
		CodeKeywords: DefaultCodeKeywords,
		strikes:      make(map[string]int),
	}
}

// Harmful reports whether prompt contains any harm keyword, case-insensitively.
func (c *Conscience) Harmful(prompt string) bool {
	return containsAny(strings.ToLower(prompt), c.HarmKeywords)
}

// Intent classifies a benign prompt.
func (c *Conscience) Intent(prompt string) string {
	if containsAny(strings.ToLower(prompt), c.CodeKeywords) {
		return IntentAdvancedCode
	}
	return IntentSimpleChat
}

// Process screens prompt for user. Blocked users stay blocked.
func (c *Conscience) Process(user, prompt string) Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.strikes[user]
	if n >= c.StrikeLimit {
		return Verdict{User: user, Outcome: OutcomeBlocked, Strikes: n, Label: "MANIFOLD COLLAPSED"}
	}

	if c.Harmful(prompt) {
		n++
		c.strikes[user] = n
		return Verdict{
			User:     user,
			Outcome:  OutcomeStrike,
			Strikes:  n,
			Collapse: n >= c.StrikeLimit,
			Label:    "ETHICAL HAZARD: STRIKE " + strconv.Itoa(n),
		}
	}

	return Verdict{User: user, Outcome: OutcomeAccepted, Intent: c.Intent(prompt), Strikes: n}
}

// Strikes returns the user's strike count.
func (c *Conscience) Strikes(user string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strikes[user]
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
