package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/service"
)

func newAccountsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage login accounts",
	}

	var (
		username string
		password string
		staff    bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.requireDatabase(); err != nil {
				return err
			}

			accounts := service.NewAccountService(*rt.cfg, rt.repos.Accounts)
			account, err := accounts.Create(cmd.Context(), username, password, staff)
			if err != nil {
				return err
			}
			rt.logger.Info("account created", zap.String("username", account.Username), zap.Bool("is_staff", account.IsStaff))
			fmt.Fprintln(cmd.OutOrStdout(), account.ID)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "account username")
	create.Flags().StringVar(&password, "password", "", "account password")
	create.Flags().BoolVar(&staff, "staff", false, "grant staff (admin) rights")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	var (
		resetUsername string
		resetPassword string
	)
	setPassword := &cobra.Command{
		Use:   "set-password",
		Short: "Replace the password of an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.requireDatabase(); err != nil {
				return err
			}

			accounts := service.NewAccountService(*rt.cfg, rt.repos.Accounts)
			if err := accounts.SetPassword(cmd.Context(), resetUsername, resetPassword); err != nil {
				return err
			}
			rt.logger.Info("password updated", zap.String("username", resetUsername))
			return nil
		},
	}
	setPassword.Flags().StringVar(&resetUsername, "username", "", "account username")
	setPassword.Flags().StringVar(&resetPassword, "password", "", "new password")
	_ = setPassword.MarkFlagRequired("username")
	_ = setPassword.MarkFlagRequired("password")

	cmd.AddCommand(create, setPassword)
	return cmd
}
