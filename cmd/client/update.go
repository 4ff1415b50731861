package main

import (
	"errors"
	"fmt"

	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/services"
	"github.com/gobarber/gobarber-client/internal/validation"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("profile form has invalid fields")

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update name, e-mail and optionally the password",
	Long: `Validate the profile form and submit it to PUT /profile.

Name and e-mail are always sent. The password is changed only when
--old-password is given, in which case --password and a matching
--password-confirmation are required.`,
	Example: `  gobarber update --name "Ana Maria" --email ana@example.com
  gobarber update --name Ana --email ana@example.com --old-password 123 --password abc --password-confirmation abc`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	addProfileFlags(updateCmd)
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "E-mail address")
	cmd.Flags().String("old-password", "", "Current password, required to change it")
	cmd.Flags().String("password", "", "New password")
	cmd.Flags().String("password-confirmation", "", "New password again")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	input, err := profileInputFromFlags(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	svc := services.NewProfileService(
		validation.NewEngine(),
		current.api,
		current.store,
		terminalNavigator{out: out},
		terminalNotifier{out: out},
	)

	outcome, err := svc.Submit(cmd.Context(), input)
	if err != nil {
		return err
	}

	switch outcome.State {
	case services.ProfileValidationFailed:
		fmt.Fprintln(out, "Please fix the following fields:")
		printFieldErrors(out, outcome.FieldErrors)
		return errValidationFailed
	case services.ProfileSubmitFailed:
		return errors.New(services.ProfileUpdateFailedTitle)
	default:
		fmt.Fprintf(out, "Signed in as %s <%s>\n", outcome.User.Name, outcome.User.Email)
		return nil
	}
}

func profileInputFromFlags(cmd *cobra.Command) (models.ProfileFormInput, error) {
	var input models.ProfileFormInput
	fields := []struct {
		flag   string
		target *string
	}{
		{"name", &input.Name},
		{"email", &input.Email},
		{"old-password", &input.OldPassword},
		{"password", &input.Password},
		{"password-confirmation", &input.PasswordConfirmation},
	}

	for _, f := range fields {
		value, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return models.ProfileFormInput{}, err
		}
		*f.target = value
	}
	return input, nil
}
