package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/wiretap"
	"github.com/AnatoleLucet/wiretap/adapters/property"
)

func newLoginCmd(_ *app) *cobra.Command {
	var user, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Simulate a login form whose button is enabled once both fields are filled",
		Long: `Build a login form from two observable fields joined into the enabled
state of its login button, then type the given user and password.

Example:
  wiretap login --user ada --password secret`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, user, password)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user name typed into the form")
	cmd.Flags().StringVar(&password, "password", "", "password typed into the form")

	return cmd
}

func runLogin(cmd *cobra.Command, user, password string) error {
	out := cmd.OutOrStdout()

	userField := property.NewValue("")
	passwordField := property.NewValue("")
	button := property.NewValue(true)

	step := "initial"
	button.Observe(func(enabled bool) {
		fmt.Fprintf(out, "%-8s enabled=%t\n", step, enabled)
	})

	form, err := wiretap.Join(property.Observe[string](userField), property.Observe[string](passwordField))
	if err != nil {
		return err
	}

	binding := property.Bind[bool](button, form.Combine(func(values ...any) any {
		return values[0].(string) != "" && values[1].(string) != ""
	}))
	defer binding.Cancel()

	step = "user"
	userField.Set(user)

	step = "password"
	passwordField.Set(password)

	return nil
}
