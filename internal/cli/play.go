package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	codeNotYourTurn = "NOT_YOUR_TURN"
	codeGameOver    = "GAME_OVER"
)

func newPlayCmd() *cobra.Command {
	var (
		create   int
		join     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive game",
		Long: `Create (--create N) or join (--join ID) a session and play it interactively.

The client polls the server until it is your turn, then reads a guess from
standard input. After every guess it shows all your guesses, closest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (create > 0) == (join != "") {
				return errors.New("exactly one of --create or --join is required")
			}
			if interval <= 0 {
				return errors.New("--interval must be positive")
			}

			ctx := cmd.Context()
			out := NewOutput("text", cmd.OutOrStdout(), cmd.ErrOrStderr())

			if create > 0 {
				result, err := createSession(ctx, create)
				if err != nil {
					return fmt.Errorf("failed to create game: %w", err)
				}
				out.PrintMessage(fmt.Sprintf("Created game with id %s.", result.SessionID))
				if create > 1 {
					out.PrintMessage("Waiting for other players to join")
				}
			} else {
				result, err := joinSession(ctx, join)
				if err != nil {
					return fmt.Errorf("failed to join game: %w", err)
				}
				out.PrintMessage(fmt.Sprintf("Successfully joined game %s", result.SessionID))
			}

			p := &player{
				out:      out,
				input:    bufio.NewScanner(cmd.InOrStdin()),
				interval: interval,
			}
			return p.play(ctx)
		},
	}

	cmd.Flags().IntVar(&create, "create", 0, "Create a game for this many players")
	cmd.Flags().StringVar(&join, "join", "", "Join the game with this id")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "State polling interval")

	return cmd
}

// player runs the interactive game loop for one client
type player struct {
	out      *Output
	input    *bufio.Scanner
	interval time.Duration
	guesses  []GuessRecord
}

func (p *player) play(ctx context.Context) error {
	state, err := getState(ctx)
	if err != nil {
		return err
	}

	for !state.IsGameOver {
		if state.IsTurn {
			if err := p.takeTurn(ctx); err != nil {
				return err
			}
		} else if err := p.wait(ctx); err != nil {
			return err
		}

		if state, err = getState(ctx); err != nil {
			return err
		}
	}

	if state.IsWinner {
		p.out.PrintMessage("Congratulations, you guessed the word!")
	} else {
		p.out.PrintMessage("Commiserations, you lost")
	}
	return nil
}

// takeTurn reads one guess and submits it. Rejected guesses are reported and
// the turn is retried on the next poll.
func (p *player) takeTurn(ctx context.Context) error {
	p.out.PrintMessage("Enter your guess")
	if !p.input.Scan() {
		if err := p.input.Err(); err != nil {
			return err
		}
		return io.ErrUnexpectedEOF
	}

	guess := strings.TrimSpace(p.input.Text())
	if guess == "" {
		return nil
	}

	result, err := submitGuess(ctx, guess)
	switch {
	case err == nil:
	case IsAPIError(err, codeNotYourTurn), IsAPIError(err, codeGameOver):
		return nil
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			p.out.PrintError(err)
			return nil
		}
		return err
	}

	p.guesses = append(p.guesses, GuessRecord{Guess: guess, Distance: result.Distance})
	p.out.Print(p.guesses)
	return nil
}

func (p *player) wait(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
