package main

import (
	"fmt"

	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/service"
	"go-bakery-trace/pkg/jwt"

	"github.com/spf13/cobra"
)

var auditLotsCmd = &cobra.Command{
	Use:   "audit-lots",
	Short: "Report lots whose remaining quantity disagrees with their usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := rt.connect()
		if err != nil {
			return err
		}
		svc := service.NewLotService(db, repository.NewLotRepo(db), repository.NewCatalogRepo(db), nil, rt.log)
		report, err := svc.Audit(cmd.Context())
		if err != nil {
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if len(report.Drifted) > 0 {
			return fmt.Errorf("%d of %d lots drifted", len(report.Drifted), report.LotsChecked)
		}
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email> <new-password>",
	Short: "Set a user's password and revoke their sessions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := rt.connect()
		if err != nil {
			return err
		}
		tokens := jwt.NewManager(rt.cfg.JWT.Secret, rt.cfg.JWT.TTL)
		svc := service.NewAuthService(repository.NewUserRepo(db), tokens, rt.cfg.JWT.TTL, rt.log)
		if err := svc.ResetPassword(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Password for %s updated\n", args[0])
		return nil
	},
}
