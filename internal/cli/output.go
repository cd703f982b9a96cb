package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Event:
		o.printEvent(v)
	case Participant:
		o.printParticipant(v)
	case []Participant:
		o.printParticipants(v)
	case Reveal:
		o.printReveal(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Rules response type (matches API)
type Rules struct {
	MaxSpend      int       `json:"max_spend"`
	BonusItem     string    `json:"bonus_item,omitempty"`
	Theme         string    `json:"theme,omitempty"`
	MatchDeadline time.Time `json:"match_deadline"`
	GiftDeadline  time.Time `json:"gift_deadline"`
}

// Event response type
type Event struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MatchState string `json:"match_state"`
	Rules      Rules  `json:"rules"`
}

// Participant response type
type Participant struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Registered bool   `json:"registered"`
}

// Reveal response type
type Reveal struct {
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Rules          Rules  `json:"rules"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printEvent(e Event) {
	fmt.Printf("Event: %s (%s)\n", e.Name, e.ID)
	fmt.Printf("Match State: %s\n", e.MatchState)
	fmt.Printf("Max Spend: %d\n", e.Rules.MaxSpend)
	if e.Rules.Theme != "" {
		fmt.Printf("Theme: %s\n", e.Rules.Theme)
	}
	if e.Rules.BonusItem != "" {
		fmt.Printf("Bonus Item: %s\n", e.Rules.BonusItem)
	}
	if !e.Rules.MatchDeadline.IsZero() {
		fmt.Printf("Match Deadline: %s\n", e.Rules.MatchDeadline.Format(time.DateOnly))
	}
	if !e.Rules.GiftDeadline.IsZero() {
		fmt.Printf("Gift Deadline: %s\n", e.Rules.GiftDeadline.Format(time.DateOnly))
	}
}

func (o *Output) printParticipant(p Participant) {
	registeredStr := "no"
	if p.Registered {
		registeredStr = "yes"
	}
	fmt.Printf("Participant: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Email: %s\n", p.Email)
	fmt.Printf("Registered: %s\n", registeredStr)
}

func (o *Output) printParticipants(participants []Participant) {
	fmt.Printf("Participants (%d):\n", len(participants))
	for _, p := range participants {
		registeredStr := ""
		if p.Registered {
			registeredStr = " [registered]"
		}
		fmt.Printf("  - %s <%s> (%s)%s\n", p.Name, p.Email, p.ID, registeredStr)
	}
}

func (o *Output) printReveal(r Reveal) {
	fmt.Printf("You are giving to: %s <%s>\n", r.RecipientName, r.RecipientEmail)
	fmt.Printf("Max Spend: %d\n", r.Rules.MaxSpend)
	if r.Rules.Theme != "" {
		fmt.Printf("Theme: %s\n", r.Rules.Theme)
	}
	if r.Rules.BonusItem != "" {
		fmt.Printf("Bonus Item: %s\n", r.Rules.BonusItem)
	}
	if !r.Rules.GiftDeadline.IsZero() {
		fmt.Printf("Gift Deadline: %s\n", r.Rules.GiftDeadline.Format(time.DateOnly))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
