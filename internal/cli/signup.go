// internal/cli/signup.go
package bookshelf

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	signupUsername string
	signupEmail    string
	signupPassword string
	signupPhone    string
)

// signupCmd implements 'signup', which registers a new library account.
// New accounts always get the "user" role; admins are created via
// 'users add'.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new library account",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := libraryClient().Signup(cmd.Context(), signupUsername, signupEmail, signupPassword, signupPhone)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Account created for %s. Run 'bookshelf login' to start a session.", signupEmail)))
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupUsername, "username", "", "display name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "account password")
	signupCmd.Flags().StringVar(&signupPhone, "phone", "", "phone number (optional)")
	_ = signupCmd.MarkFlagRequired("username")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(signupCmd)
}
