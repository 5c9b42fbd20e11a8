package cli

import (
	"errors"
	"fmt"
	"strings"

	"eisenhower-app/internal/manager"
	"eisenhower-app/internal/matrix"

	"github.com/spf13/cobra"
)

func (a *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print tasks grouped by quadrant",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.controller()
			if err := ctrl.Load(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", manager.MsgLoadFailed, err)
			}
			matrix.Fprint(cmd.OutOrStdout(), ctrl.Snapshot().Matrix)
			return nil
		},
	}
}

func (a *App) addCmd() *cobra.Command {
	var urgent, important bool

	cmd := &cobra.Command{
		Use:   "add [--urgent] [--important] <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			task, err := a.controller().CreateTask(cmd.Context(), title, urgent, important)
			if err != nil {
				if errors.Is(err, manager.ErrEmptyTitle) {
					return err
				}
				return fmt.Errorf("%s: %w", manager.MsgAddFailed, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", task.ID, matrix.Of(task))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&urgent, "urgent", "u", false, "mark the task urgent")
	cmd.Flags().BoolVarP(&important, "important", "i", false, "mark the task important")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <number|id|id:ID>",
		Aliases: []string{"rm"},
		Short:   "Delete a task by its number from list or by id",
		Long: "Delete a task by its number from list or by id.\n" +
			"A number within the list length is a position; use the id: prefix for numeric ids, e.g. delete id:1.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.controller()
			if err := ctrl.Load(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", manager.MsgLoadFailed, err)
			}

			id, err := ctrl.Snapshot().Matrix.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := ctrl.DeleteTask(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s: %w", manager.MsgDeleteFailed, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "eisenhower %s\n", Version)
			return nil
		},
	}
}
