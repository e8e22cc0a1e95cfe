package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/services"
)

// ShowGridCmd creates the showGrid command
func ShowGridCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showGrid <event_id>",
		Short: "Show the shift × post planning grid of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			grid, err := app.Plannings.Grid(app.Ctx, org, args[0])
			if err != nil {
				return fmt.Errorf("failed to build planning grid: %w", err)
			}

			printGrid(os.Stdout, grid)
			return nil
		},
	}
}

func printGrid(w io.Writer, grid *services.PlanningGrid) {
	fmt.Fprintf(w, "\n📋 %s (until %s)\n\n", grid.Event.Name, grid.EndTime)

	fmt.Fprintf(w, "%-6s", "Shift")
	for _, post := range grid.Posts {
		fmt.Fprintf(w, "  %-16s", post.Label())
	}
	fmt.Fprintln(w)

	for _, row := range grid.Rows {
		fmt.Fprintf(w, "%-6s", row.Shift)
		for _, post := range grid.Posts {
			cell := "—"
			if names := row.Posts[post]; len(names) > 0 {
				cell = strings.Join(names, ", ")
			}
			fmt.Fprintf(w, "  %-16s", cell)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nRoster (%d):\n", len(grid.Roster))
	for _, v := range grid.Roster {
		fmt.Fprintf(w, "  - %s (%s)\n", grid.Names[v.ID], v.ID)
	}
	fmt.Fprintln(w)
}

// AddToRosterCmd creates the addToRoster command
func AddToRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addToRoster <event_id> <volunteer_id>",
		Short: "Add a volunteer to an event's roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			planning, err := app.Plannings.AddVolunteerToRoster(app.Ctx, org, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to add volunteer to roster: %w", err)
			}

			fmt.Printf("\n✅ Roster now has %d volunteers\n\n", len(planning.VolunteerIDs))
			return nil
		},
	}
}

// RemoveFromRosterCmd creates the removeFromRoster command
func RemoveFromRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeFromRoster <event_id> <volunteer_id>",
		Short: "Remove a volunteer from an event's roster and from all their shifts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			planning, err := app.Plannings.RemoveVolunteerFromRoster(app.Ctx, org, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to remove volunteer from roster: %w", err)
			}

			fmt.Printf("\n✅ Roster now has %d volunteers\n\n", len(planning.VolunteerIDs))
			return nil
		},
	}
}

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <event_id> <shift> <post> <volunteer_id>",
		Short: "Assign a volunteer to a post for one shift, e.g. assign <event> 21:30 entry <volunteer>",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			app.Logger.Debug("assign command",
				zap.String("event_id", args[0]),
				zap.String("shift", args[1]),
				zap.String("post", args[2]),
				zap.String("volunteer_id", args[3]))

			if _, err := app.Plannings.Assign(app.Ctx, org, args[0], args[1], model.PostID(args[2]), args[3]); err != nil {
				return fmt.Errorf("failed to assign volunteer: %w", err)
			}

			fmt.Printf("\n✅ Assigned %s to %s at %s\n\n", args[3], model.PostID(args[2]).Label(), args[1])
			return nil
		},
	}
}

// UnassignCmd creates the unassign command
func UnassignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <event_id> <shift> <post> <volunteer_id>",
		Short: "Remove a volunteer from a post for one shift",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			if _, err := app.Plannings.Unassign(app.Ctx, org, args[0], args[1], model.PostID(args[2]), args[3]); err != nil {
				return fmt.Errorf("failed to unassign volunteer: %w", err)
			}

			fmt.Printf("\n✅ Removed %s from %s at %s\n\n", args[3], model.PostID(args[2]).Label(), args[1])
			return nil
		},
	}
}

// ExportCSVCmd creates the exportCSV command
func ExportCSVCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportCSV <event_id>",
		Short: "Export an event's planning as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return app.Plannings.ExportCSV(app.Ctx, org, args[0], os.Stdout)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()

			if err := app.Plannings.ExportCSV(app.Ctx, org, args[0], f); err != nil {
				return err
			}

			fmt.Printf("\n✅ Planning written to %s\n\n", out)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Output file (defaults to stdout)")

	return cmd
}

// PublishPlanningCmd creates the publishPlanning command
func PublishPlanningCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishPlanning <event_id>",
		Short: "Publish an event's planning grid to Google Sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			result, err := app.Integrations.PublishPlanning(app.Ctx, org, args[0])
			if err != nil {
				return fmt.Errorf("failed to publish planning: %w", err)
			}

			fmt.Printf("\n✅ Planning Published Successfully\n\n")
			fmt.Printf("Event:       %s\n", result.EventName)
			fmt.Printf("Tab:         %s\n", result.TabTitle)
			fmt.Printf("Shifts:      %d\n", result.ShiftCount)
			fmt.Printf("Assignments: %d\n", result.AssignedCount)
			fmt.Printf("Sheet ID:    %s\n\n", app.Cfg.PlanningSheetID)

			return nil
		},
	}
}

// EmailShiftsCmd creates the emailShifts command
func EmailShiftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "emailShifts <event_id>",
		Short: "Email every rostered volunteer a summary of their shifts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			result, err := app.Integrations.EmailShifts(app.Ctx, org, args[0])
			if err != nil {
				return fmt.Errorf("failed to email shifts: %w", err)
			}

			fmt.Printf("\n✅ Shift emails sent\n\n")

			if len(result.Sent) > 0 {
				fmt.Printf("Sent to %d volunteers:\n", len(result.Sent))
				for _, name := range result.Sent {
					fmt.Printf("  ✓ %s\n", name)
				}
				fmt.Println()
			}

			if len(result.Skipped) > 0 {
				fmt.Printf("Skipped %d volunteers (no email or no shift):\n", len(result.Skipped))
				for _, name := range result.Skipped {
					fmt.Printf("  - %s\n", name)
				}
				fmt.Println()
			}

			if len(result.Failed) > 0 {
				fmt.Printf("⚠️  Failed to send %d emails:\n", len(result.Failed))
				for _, f := range result.Failed {
					fmt.Printf("  ✗ %s: %s\n", f.Name, f.Message)
				}
				fmt.Println()
			}

			return nil
		},
	}
}
