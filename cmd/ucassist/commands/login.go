package commands

import (
	"fmt"
	"slices"
	"ucassist-backend/internal/models"
	"ucassist-backend/internal/service"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	loginCode     string
	loginCookie   string
)

func parseSystem(arg string) (service.System, error) {
	system := service.System(arg)
	if !slices.Contains(service.Systems, system) {
		return "", fmt.Errorf("unknown system %q, expected one of %v", arg, service.Systems)
	}
	return system, nil
}

var captchaCmd = &cobra.Command{
	Use:   "captcha <app|sep|jwxt|lib>",
	Short: "Fetch the verification code image url and its cookie for a system.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := parseSystem(args[0])
		if err != nil {
			return err
		}
		g := getGlobals(cmd.Context())
		return printEnvelope(cmd.OutOrStdout(), g.service.Captcha(cmd.Context(), system))
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <app|sep|jwxt|lib>",
	Short: "Log into a system and print its session cookie.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := parseSystem(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		g := getGlobals(ctx)

		username := loginUsername
		if username == "" {
			username = g.config.Username
		}
		password := loginPassword
		if password == "" {
			password = g.config.Password
		}
		if system != service.SYSTEM_LIB && (username == "" || password == "") {
			return fmt.Errorf("username and password are required, pass them as flags or put them in the config")
		}

		var env models.Envelope
		switch system {
		case service.SYSTEM_APP:
			env = g.service.LoginPortal(ctx, username, password)
		case service.SYSTEM_SEP:
			env = g.service.LoginGateway(ctx, username, password, loginCode, loginCookie)
		case service.SYSTEM_JWXT:
			env = g.service.LoginJwxt(ctx, username, password, loginCode, loginCookie)
		case service.SYSTEM_LIB:
			env = g.service.LoginLibrary(ctx)
		}
		return printEnvelope(cmd.OutOrStdout(), env)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account name, falls back to the config.")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password, falls back to the config.")
	loginCmd.Flags().StringVar(&loginCode, "code", "", "Verification code read from the captcha image.")
	loginCmd.Flags().StringVar(&loginCookie, "cookie", "", "Cookie returned by the captcha command.")

	rootCmd.AddCommand(captchaCmd)
	rootCmd.AddCommand(loginCmd)
}
