package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <players>",
		Short: "Create a session for the given number of players and join it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			capacity, err := strconv.Atoi(args[0])
			if err != nil || capacity < 1 {
				return fmt.Errorf("players must be a positive number")
			}

			result, err := createSession(cmd.Context(), capacity)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <session-id>",
		Short: "Join an existing session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := joinSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the state of your current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getState(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}
}

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <word>",
		Short: "Guess the target word (your turn only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := submitGuess(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}
}

// createSession creates a session and saves the returned token
func createSession(ctx context.Context, capacity int) (SessionResult, error) {
	var result SessionResult
	body := map[string]int{"capacity": capacity}
	if err := client.Post(ctx, "/api/v1/sessions", body, &result); err != nil {
		return result, err
	}
	return result, useToken(result.Token)
}

// joinSession joins a session and saves the returned token
func joinSession(ctx context.Context, sessionID string) (SessionResult, error) {
	var result SessionResult
	path := fmt.Sprintf("/api/v1/sessions/%s/join", url.PathEscape(sessionID))
	if err := client.Post(ctx, path, nil, &result); err != nil {
		return result, err
	}
	return result, useToken(result.Token)
}

func getState(ctx context.Context) (StateResult, error) {
	var result StateResult
	err := client.Get(ctx, "/api/v1/game/state", &result)
	return result, err
}

func submitGuess(ctx context.Context, guess string) (GuessResult, error) {
	var result GuessResult
	err := client.Post(ctx, "/api/v1/game/guess", map[string]string{"guess": guess}, &result)
	return result, err
}

func useToken(token string) error {
	client.SetToken(token)
	if err := cfg.SaveToken(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
