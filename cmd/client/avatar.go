package main

import (
	"errors"
	"fmt"

	"github.com/gobarber/gobarber-client/internal/imagesource"
	"github.com/gobarber/gobarber-client/internal/services"
	"github.com/spf13/cobra"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Pick a new avatar and upload it",
	Long: `Ask for an image and upload it to PATCH /users/avatar.

Without --file an interactive picker is shown. Declining the picker
leaves the avatar unchanged and is not an error.`,
	RunE: runAvatar,
}

func init() {
	rootCmd.AddCommand(avatarCmd)
	addAvatarFlags(avatarCmd)
}

func addAvatarFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Image file to upload instead of prompting")
}

func runAvatar(cmd *cobra.Command, args []string) error {
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var source services.ImageSource = imagesource.PromptSource{In: cmd.InOrStdin(), Out: out}
	if file != "" {
		source = imagesource.FileSource{Path: file}
	}

	svc := services.NewAvatarService(source, current.api, current.store, terminalNotifier{out: out})

	outcome, err := svc.ChangeAvatar(cmd.Context())
	if err != nil {
		return err
	}

	switch outcome.State {
	case services.AvatarUploaded:
		fmt.Fprintf(out, "Avatar updated: %s\n", outcome.User.Avatar())
		return nil
	case services.AvatarCancelled:
		fmt.Fprintln(out, "Avatar unchanged.")
		return nil
	default:
		return errors.New(services.AvatarUpdateFailedTitle)
	}
}
