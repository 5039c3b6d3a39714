package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCommand(e *env) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create a local account",
		Long: `Create a local account. Registering does not sign you in.

Passwords are stored as given. Do not reuse a password you care about.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := e.app.Sessions().Register(cmd.Context(), args[0], args[1], email)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Sign in with: recipebox login %s <password>\n",
				account.Username, account.Username)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Optional contact email")
	return cmd
}

func newLoginCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in with a local account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.watch(cmd); err != nil {
				return err
			}
			_, err := e.app.Sessions().Login(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func newLoginTokenCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "login-token <credential>",
		Short: "Sign in with an identity token from an external provider",
		Long: `Sign in with the identity token (a JWT) issued by an external sign-in
provider. The token's claims are read as-is; its signature is not checked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.watch(cmd); err != nil {
				return err
			}
			_, err := e.app.Sessions().LoginWithExternalToken(cmd.Context(), args[0])
			return err
		},
	}
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !e.app.Sessions().IsAuthenticated() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return err
			}
			if err := e.watch(cmd); err != nil {
				return err
			}
			return e.app.Sessions().SignOut(cmd.Context())
		},
	}
}

func newWhoamiCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			user, ok := e.app.Sessions().CurrentUser()
			if !ok {
				_, err := fmt.Fprintln(out, "Not signed in.")
				return err
			}

			fmt.Fprintf(out, "Name:     %s\n", user.Name)
			if user.Username != "" {
				fmt.Fprintf(out, "Username: %s\n", user.Username)
			}
			if user.Email != "" {
				fmt.Fprintf(out, "Email:    %s\n", user.Email)
			}
			fmt.Fprintf(out, "ID:       %s\n", user.ID)
			_, err := fmt.Fprintf(out, "Picture:  %s\n", user.PictureURL)
			return err
		},
	}
}
