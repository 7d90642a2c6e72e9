package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/samber/lo"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
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
		_, _ = fmt.Fprintln(o.errW, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionResult:
		o.printSessionResult(v)
	case StateResult:
		o.printStateResult(v)
	case GuessResult:
		o.printGuessResult(v)
	case HealthResult:
		o.printHealthResult(v)
	case []GuessRecord:
		o.printGuessTable(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SessionResult is the response for creating or joining a session
type SessionResult struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
	Token     string `json:"token"`
}

// StateResult is the response for the state endpoint
type StateResult struct {
	IsGameOver    bool `json:"is_game_over"`
	IsTurn        bool `json:"is_turn"`
	IsWinner      bool `json:"is_winner"`
	PlayersJoined int  `json:"players_joined"`
	Capacity      int  `json:"capacity"`
}

// GuessResult is the response for a guess
type GuessResult struct {
	IsCorrect bool    `json:"is_correct"`
	Distance  float64 `json:"distance"`
}

// HealthResult is the response for the health endpoint
type HealthResult struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// GuessRecord is one guess made during an interactive game
type GuessRecord struct {
	Guess    string  `json:"guess"`
	Distance float64 `json:"distance"`
}

func (o *Output) printSessionResult(r SessionResult) {
	_, _ = fmt.Fprintf(o.w, "Session: %s\n", r.SessionID)
	_, _ = fmt.Fprintf(o.w, "Player:  %s\n", r.PlayerID)
	_, _ = fmt.Fprintf(o.w, "Token:   %s\n", r.Token)
}

func (o *Output) printStateResult(r StateResult) {
	_, _ = fmt.Fprintf(o.w, "Players: %d/%d\n", r.PlayersJoined, r.Capacity)
	switch {
	case r.IsGameOver && r.IsWinner:
		_, _ = fmt.Fprintln(o.w, "Game over: you won")
	case r.IsGameOver:
		_, _ = fmt.Fprintln(o.w, "Game over: you lost")
	case r.IsTurn:
		_, _ = fmt.Fprintln(o.w, "Your turn")
	case r.PlayersJoined < r.Capacity:
		_, _ = fmt.Fprintln(o.w, "Waiting for players to join")
	default:
		_, _ = fmt.Fprintln(o.w, "Waiting for your turn")
	}
}

func (o *Output) printGuessResult(r GuessResult) {
	if r.IsCorrect {
		_, _ = fmt.Fprintln(o.w, "Correct!")
		return
	}
	_, _ = fmt.Fprintf(o.w, "Wrong, distance %s\n", formatDistance(r.Distance))
}

func (o *Output) printHealthResult(r HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", r.Status)
	_, _ = fmt.Fprintf(o.w, "Sessions: %d\n", r.Sessions)
}

// printGuessTable prints guesses closest first
func (o *Output) printGuessTable(guesses []GuessRecord) {
	sorted := slices.Clone(guesses)
	slices.SortStableFunc(sorted, func(a, b GuessRecord) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	rows := lo.Map(sorted, func(g GuessRecord, _ int) string {
		return g.Guess + "\t" + formatDistance(g.Distance)
	})

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "GUESS\tDISTANCE")
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, row)
	}
	_ = tw.Flush()
}

func formatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', 4, 64)
}
