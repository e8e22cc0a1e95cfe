package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/db"
)

const startLayout = "2006-01-02 15:04"

// ListEventsCmd creates the listEvents command
func ListEventsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listEvents",
		Short: "List events in start order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			var filter db.EventFilter
			if from, _ := cmd.Flags().GetString("from"); from != "" {
				t, err := time.ParseInLocation(time.DateOnly, from, app.Cfg.Location())
				if err != nil {
					return fmt.Errorf("from must be a date (2006-01-02): %w", err)
				}
				filter.From = &t
			}
			if to, _ := cmd.Flags().GetString("to"); to != "" {
				t, err := time.ParseInLocation(time.DateOnly, to, app.Cfg.Location())
				if err != nil {
					return fmt.Errorf("to must be a date (2006-01-02): %w", err)
				}
				filter.To = &t
			}

			events, err := app.Events.List(app.Ctx, org, filter)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			fmt.Printf("\nFound %d events:\n\n", len(events))
			for _, e := range events {
				end := e.EndTime
				if end == "" {
					end = "—"
				}
				fmt.Printf("%-18s  %-5s  %-35s (%s)\n", e.StartsAt.In(app.Cfg.Location()).Format(startLayout), end, e.Name, e.ID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("from", "", "Only list events starting on or after this date")
	cmd.Flags().String("to", "", "Only list events starting before this date")

	return cmd
}

// CreateEventCmd creates the createEvent command
func CreateEventCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createEvent <name> <start>",
		Short: "Create an event starting at <start> (\"2006-01-02 15:04\", local time)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			startsAt, err := time.ParseInLocation(startLayout, args[1], app.Cfg.Location())
			if err != nil {
				return fmt.Errorf("start must look like %q: %w", startLayout, err)
			}

			endTime, _ := cmd.Flags().GetString("end")
			brief, _ := cmd.Flags().GetString("brief")
			ticketing, _ := cmd.Flags().GetString("ticketing")

			event, err := app.Events.Create(app.Ctx, org, services.EventInput{
				Name:         args[0],
				StartsAt:     startsAt,
				EndTime:      endTime,
				Brief:        brief,
				TicketingRef: ticketing,
			})
			if err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}

			fmt.Printf("\n✅ Event created\n\n")
			fmt.Printf("Event ID: %s\n", event.ID)
			fmt.Printf("Name:     %s\n", event.Name)
			fmt.Printf("Starts:   %s\n\n", event.StartsAt.In(app.Cfg.Location()).Format(startLayout))

			return nil
		},
	}

	cmd.Flags().String("end", "", "Shift grid end time (HH:MM)")
	cmd.Flags().String("brief", "", "Short description")
	cmd.Flags().String("ticketing", "", "Ticketing event reference")

	return cmd
}

// DeleteEventCmd creates the deleteEvent command
func DeleteEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteEvent <event_id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			if err := app.Events.Delete(app.Ctx, org, args[0]); err != nil {
				return fmt.Errorf("failed to delete event: %w", err)
			}

			fmt.Printf("\n✅ Event %s deleted\n\n", args[0])
			return nil
		},
	}
}

// TicketingCmd creates the ticketing command
func TicketingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ticketing <event_id>",
		Short: "Show the ticket sales of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			app.Logger.Debug("ticketing command", zap.String("event_id", args[0]))

			summary, err := app.Integrations.TicketingSummary(app.Ctx, org, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch ticketing summary: %w", err)
			}

			fmt.Printf("\n🎟  %s\n\n", summary.EventName)
			fmt.Printf("Sold:     %d / %d\n", summary.Sold, summary.Capacity)
			fmt.Printf("Scanned:  %d\n", summary.Scanned)
			fmt.Printf("Revenue:  %.2f\n\n", summary.Revenue)

			if len(summary.Deals) > 0 {
				fmt.Printf("%-30s  %6s  %10s\n", "Deal", "Sold", "Revenue")
				fmt.Println("------------------------------  ------  ----------")
				for _, deal := range summary.Deals {
					fmt.Printf("%-30s  %6d  %10.2f\n", deal.Name, deal.Sold, deal.Revenue)
				}
				fmt.Println()
			}

			return nil
		},
	}
}
