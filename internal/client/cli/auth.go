package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/issuekeeper/internal/client/auth"
)

func newRegisterCmd(a *app) *cobra.Command {
	var name, email, passwordFile string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create an account on the server and store the session locally.

Missing values are prompted for. The password is taken from
ISSUEKEEPER_PASSWORD, --password-file or an interactive prompt.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = a.prompt(name, "Name: "); err != nil {
				return err
			}
			if email, err = a.prompt(email, "Email: "); err != nil {
				return err
			}
			password, err := a.readPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}

			session, err := a.auth.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}

			a.success("Registered %s <%s>", session.Name, session.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "read the password from a file")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, passwordFile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and cache the session token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = a.prompt(email, "Email: "); err != nil {
				return err
			}
			password, err := a.readPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}

			session, err := a.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			a.success("Logged in as %s <%s>", session.Name, session.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "read the password from a file")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached session",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.success("Logged out")
			return nil
		}),
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			session, err := a.auth.Session(cmd.Context())
			if err != nil {
				if errors.Is(err, auth.ErrNotAuthenticated) {
					return &AuthRequiredError{Err: err}
				}
				return err
			}

			return a.authed(cmd.Context(), func(token string) error {
				user, err := a.client.Me(cmd.Context(), token)
				if err != nil {
					return err
				}
				a.renderUser(user, session.ExpiresAt)
				return nil
			})
		}),
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			health, err := a.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			a.success("%s is %s (version %s, %s)", a.client.BaseURL(), health.Status, health.Version,
				time.Since(start).Round(time.Millisecond))
			return nil
		}),
	}
}
