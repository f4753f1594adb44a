package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	pkgapi "github.com/iudanet/issuekeeper/pkg/api"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or change your account",
	}
	cmd.AddCommand(newProfileShowCmd(a), newProfileUpdateCmd(a))
	return cmd
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.authed(cmd.Context(), func(token string) error {
				user, err := a.client.GetProfile(cmd.Context(), token)
				if err != nil {
					return err
				}
				a.renderUser(user, time.Time{})
				return nil
			})
		}),
	}
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var name, email string
	var newPassword bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change name, email or password",
		Long: `Change name, email or password. Only the flags you pass are sent.
--new-password prompts for the new password.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var req pkgapi.UpdateProfileRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if newPassword {
				password, err := a.io.ReadPassword("New password: ")
				if err != nil {
					return err
				}
				req.Password = &password
			}
			if req == (pkgapi.UpdateProfileRequest{}) {
				return errors.New("nothing to update, pass --name, --email or --new-password")
			}

			return a.authed(cmd.Context(), func(token string) error {
				user, err := a.client.UpdateProfile(cmd.Context(), token, req)
				if err != nil {
					return err
				}
				if err := a.refreshSession(cmd, user); err != nil {
					return err
				}
				a.success("Profile updated")
				a.renderUser(user, time.Time{})
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().BoolVar(&newPassword, "new-password", false, "prompt for a new password")
	return cmd
}

// refreshSession keeps the cached name and email in line with the server.
func (a *app) refreshSession(cmd *cobra.Command, user *pkgapi.User) error {
	session, err := a.auth.Session(cmd.Context())
	if err != nil {
		return err
	}
	updated := *session
	updated.Name = user.Name
	updated.Email = user.Email
	return a.store.SaveSession(cmd.Context(), &updated)
}
