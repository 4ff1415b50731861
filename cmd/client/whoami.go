package main

import (
	"fmt"
	"time"

	apperrors "github.com/gobarber/gobarber-client/pkg/errors"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s := current.store.Current()
	if s.IsZero() {
		return apperrors.ErrNoSession
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:     %s\n", s.User.ID)
	fmt.Fprintf(out, "Name:   %s\n", s.User.Name)
	fmt.Fprintf(out, "E-mail: %s\n", s.User.Email)
	if avatar := s.User.Avatar(); avatar != "" {
		fmt.Fprintf(out, "Avatar: %s\n", avatar)
	}

	exp, ok, err := s.TokenExpiresAt()
	switch {
	case err != nil:
		fmt.Fprintln(out, "Token:  unreadable")
	case !ok:
		fmt.Fprintln(out, "Token:  no expiry")
	case s.TokenExpired(time.Now()):
		fmt.Fprintf(out, "Token:  expired at %s\n", exp.Format(time.RFC3339))
	default:
		fmt.Fprintf(out, "Token:  valid until %s\n", exp.Format(time.RFC3339))
	}
	return nil
}
