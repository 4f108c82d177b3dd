package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/types"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an account",
	Long:  "Creates an account. The password is read from --password or, when omitted, from the first line of stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersCreate,
}

var usersCreatePassword string

func init() {
	usersCreateCmd.Flags().StringVar(&usersCreatePassword, "password", "", "Password for the new account")
	usersCmd.AddCommand(usersCreateCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	passwordConfig, err := cfg.Password()
	if err != nil {
		return err
	}

	password := usersCreatePassword
	if password == "" {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), labelStyle.Render("Password: "))
		if password, err = readLine(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	req := &types.RegisterRequest{Username: args[0], Password: password}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	st, closeFn, err := openMigrated(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeFn()

	user, err := server.NewUserService(st, passwordConfig).Register(cmd.Context(), req)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Created account "+user.Username))
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
