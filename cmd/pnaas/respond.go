package main

import (
	"errors"
	"fmt"

	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/spf13/cobra"
)

func newRespondCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "respond <resid> <text>",
		Short: "Attach a response to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			svc := project.NewService(store, a.logger)
			doc, err := svc.Respond(cmd.Context(), args[0], args[1])
			if errors.Is(err, project.ErrProjectNotFound) {
				return fmt.Errorf("no project with resid %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc.Status)
			return nil
		},
	}
}
