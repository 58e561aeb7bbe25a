package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/go-burrow/internal/session"
)

func loginCmd(deps func() *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())

			if err := prompt(cmd, in, "Email: ", &email); err != nil {
				return err
			}
			if err := prompt(cmd, in, "Password: ", &password); err != nil {
				return err
			}

			info, err := deps().Session.Login(cmd.Context(), email, password)
			if err != nil {
				return userError(err)
			}

			if info.Username != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", info.Username)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")

	return cmd
}

func registerCmd(deps func() *Env) *cobra.Command {
	var username, email, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())

			for _, p := range []struct {
				label string
				dst   *string
			}{
				{"Username: ", &username},
				{"Email: ", &email},
				{"Password: ", &password},
				{"Confirm password: ", &confirm},
			} {
				if err := prompt(cmd, in, p.label, p.dst); err != nil {
					return err
				}
			}

			msg, err := deps().Session.Register(cmd.Context(), username, email, password, confirm)
			if err != nil {
				return userError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (prompted when empty)")

	return cmd
}

func logoutCmd(deps func() *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps().Session.Logout(cmd.Context()); err != nil {
				return userError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCmd(deps func() *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			info, err := deps().Session.Current(cmd.Context())
			if errors.Is(err, session.ErrNotJWT) {
				fmt.Fprintln(out, "Logged in.")
				return nil
			}
			if err != nil {
				return userError(err)
			}

			name := info.Username
			if name == "" {
				name = info.UserID
			}
			fmt.Fprintf(out, "user: %s\n", name)

			if !info.ExpiresAt.IsZero() {
				state := "expires"
				if info.Expired(deps().Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "%s: %s\n", state, relTime(info.ExpiresAt, deps().Now()))
			}

			return nil
		},
	}
}

// prompt дочитывает значение из stdin, если флаг не задан.
func prompt(cmd *cobra.Command, in *bufio.Reader, label string, dst *string) error {
	if *dst != "" {
		return nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), label)

	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read input: %w", err)
	}
	*dst = strings.TrimRight(line, "\r\n")

	return nil
}
