package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/service"
)

// Departments have no delete endpoint; removal is an operator task.
func newDepartmentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "departments",
		Short: "Operator actions on departments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a department and every employee in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.requireDatabase(); err != nil {
				return err
			}

			departments := service.NewDepartmentService(rt.repos.Departments)
			if err := departments.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			rt.logger.Info("department deleted", zap.String("id", args[0]))
			return nil
		},
	})
	return cmd
}
