package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/db"
)

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listVolunteers",
		Short: "List the organisation's volunteers, favourites first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			kind, _ := cmd.Flags().GetString("kind")
			favorites, _ := cmd.Flags().GetBool("favorites")

			volunteers, err := app.Volunteers.List(app.Ctx, org, db.VolunteerFilter{Kind: kind, FavoritesOnly: favorites})
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}

			fmt.Printf("\nFound %d volunteers:\n\n", len(volunteers))
			for _, v := range volunteers {
				star := " "
				if v.Favorite {
					star = "★"
				}
				fmt.Printf("%s %-30s %-10s %-30s (%s)\n", star, v.Name, v.Kind, v.Email, v.ID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("kind", "", "Only list volunteers of this kind (volunteer, member)")
	cmd.Flags().Bool("favorites", false, "Only list favourites")

	return cmd
}

// AddVolunteerCmd creates the addVolunteer command
func AddVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addVolunteer <name>",
		Short: "Add a volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			kind, _ := cmd.Flags().GetString("kind")
			email, _ := cmd.Flags().GetString("email")
			phone, _ := cmd.Flags().GetString("phone")
			notes, _ := cmd.Flags().GetString("notes")
			favorite, _ := cmd.Flags().GetBool("favorite")

			volunteer, err := app.Volunteers.Create(app.Ctx, org, services.VolunteerInput{
				Name:     args[0],
				Kind:     kind,
				Favorite: favorite,
				Phone:    phone,
				Email:    email,
				Notes:    notes,
			})
			if err != nil {
				return fmt.Errorf("failed to add volunteer: %w", err)
			}

			fmt.Printf("\n✅ Added %s (%s) as %s\n\n", volunteer.Name, volunteer.ID, volunteer.Kind)
			return nil
		},
	}

	cmd.Flags().String("kind", "volunteer", "Volunteer kind (volunteer, member)")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("notes", "", "Free text notes")
	cmd.Flags().Bool("favorite", false, "Mark as a favourite")

	return cmd
}

// FavoriteVolunteerCmd creates the favoriteVolunteer command
func FavoriteVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "favoriteVolunteer <volunteer_id>",
		Short: "Toggle a volunteer's favourite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			volunteer, err := app.Volunteers.ToggleFavorite(app.Ctx, org, args[0])
			if err != nil {
				return fmt.Errorf("failed to toggle favourite: %w", err)
			}

			if volunteer.Favorite {
				fmt.Printf("\n★ %s is now a favourite\n\n", volunteer.Name)
			} else {
				fmt.Printf("\n%s is no longer a favourite\n\n", volunteer.Name)
			}
			return nil
		},
	}
}

// ImportVolunteersCmd creates the importVolunteers command
func ImportVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importVolunteers",
		Short: "Import new volunteers from a tab of the planning spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			tab, _ := cmd.Flags().GetString("tab")
			app.Logger.Debug("importVolunteers command", zap.String("tab", tab))

			result, err := app.Integrations.ImportVolunteers(app.Ctx, org, tab)
			if err != nil {
				return fmt.Errorf("failed to import volunteers: %w", err)
			}

			fmt.Printf("\n✅ Imported %d volunteers\n", len(result.Created))
			for _, v := range result.Created {
				fmt.Printf("  + %s\n", v.Name)
			}
			if len(result.Skipped) > 0 {
				fmt.Printf("\nSkipped %d already known:\n", len(result.Skipped))
				for _, name := range result.Skipped {
					fmt.Printf("  - %s\n", name)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("tab", "Volunteers", "Spreadsheet tab to read")

	return cmd
}
