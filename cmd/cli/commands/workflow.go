package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/services"
)

// ShowWorkflowCmd creates the showWorkflow command
func ShowWorkflowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showWorkflow <event_id>",
		Short: "Show the communication workflow of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			state, err := app.Workflows.Load(app.Ctx, org, args[0])
			if err != nil {
				return fmt.Errorf("failed to load workflow: %w", err)
			}

			printWorkflow(os.Stdout, state, app.Cfg.Location())
			return nil
		},
	}
}

func printWorkflow(w io.Writer, state *services.WorkflowState, loc *time.Location) {
	fmt.Fprintf(w, "\n📣 %s\n\n", state.Event.Name)

	for _, phase := range state.Board.Phases {
		marker := " "
		if phase.Phase == state.Board.ActivePhase {
			marker = "▶"
		}
		status := ""
		if phase.Complete {
			status = " (complete)"
		}
		fmt.Fprintf(w, "%s %s%s\n", marker, phase.Phase, status)

		for i, step := range phase.Steps {
			check := "[ ]"
			if step.Done {
				check = "[x]"
			}
			cursor := "  "
			if phase.Phase == state.Board.ActivePhase && i == state.Board.ActiveStep {
				cursor = "→ "
			}
			fmt.Fprintf(w, "    %s%d. %s %s\n", cursor, i, check, step.Label)
		}
	}

	if state.Board.CanAdvancePhase {
		fmt.Fprintln(w, "\nThe current phase is complete and can be advanced.")
	}

	if len(state.Workflow.Posts) > 0 {
		fmt.Fprintf(w, "\nPosts (%d):\n", len(state.Workflow.Posts))
		for _, post := range state.Workflow.Posts {
			when := "unscheduled"
			if post.ScheduledAt != nil {
				when = post.ScheduledAt.In(loc).Format(startLayout)
			}
			published := ""
			if post.Published {
				published = " ✓ published"
			}
			fmt.Fprintf(w, "  - %-25s %-18s (%s)%s\n", post.Name, when, post.ID, published)
		}
	}

	fmt.Fprintf(w, "\nProgress: %d/%d milestones (%.0f%%)\n\n",
		state.Progress.Done, len(state.Progress.Milestones), state.Progress.Ratio*100)
}

// navigationCmd builds a command that moves the workflow cursor and reports whether it moved
func navigationCmd(
	app *AppContext,
	use string,
	short string,
	positional cobra.PositionalArgs,
	move func(org model.Org, args []string) (*services.NavigationResult, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  positional,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			result, err := move(org, args)
			if err != nil {
				return fmt.Errorf("failed to move workflow: %w", err)
			}

			if !result.Moved {
				fmt.Println("\n⚠️  That move is not available right now.")
			}
			printWorkflow(os.Stdout, result.WorkflowState, app.Cfg.Location())
			return nil
		},
	}
}

// AdvancePhaseCmd creates the advancePhase command
func AdvancePhaseCmd(app *AppContext) *cobra.Command {
	return navigationCmd(app, "advancePhase <event_id>", "Move to the next phase once the current one is complete", cobra.ExactArgs(1),
		func(org model.Org, args []string) (*services.NavigationResult, error) {
			return app.Workflows.AdvancePhase(app.Ctx, org, args[0])
		})
}

// NextStepCmd creates the nextStep command
func NextStepCmd(app *AppContext) *cobra.Command {
	return navigationCmd(app, "nextStep <event_id>", "Move to the next step of the active phase", cobra.ExactArgs(1),
		func(org model.Org, args []string) (*services.NavigationResult, error) {
			return app.Workflows.NextStep(app.Ctx, org, args[0])
		})
}

// PrevStepCmd creates the prevStep command
func PrevStepCmd(app *AppContext) *cobra.Command {
	return navigationCmd(app, "prevStep <event_id>", "Move to the previous step of the active phase", cobra.ExactArgs(1),
		func(org model.Org, args []string) (*services.NavigationResult, error) {
			return app.Workflows.PrevStep(app.Ctx, org, args[0])
		})
}

// SelectStepCmd creates the selectStep command
func SelectStepCmd(app *AppContext) *cobra.Command {
	return navigationCmd(app, "selectStep <event_id> <step>", "Jump to a step of the active phase", cobra.ExactArgs(2),
		func(org model.Org, args []string) (*services.NavigationResult, error) {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("step must be a number: %w", err)
			}
			return app.Workflows.SelectStep(app.Ctx, org, args[0], idx)
		})
}

// SelectPhaseCmd creates the selectPhase command
func SelectPhaseCmd(app *AppContext) *cobra.Command {
	return navigationCmd(app, "selectPhase <event_id> <phase>", "Jump to a phase (preparation, production, communication, postEvent)", cobra.ExactArgs(2),
		func(org model.Org, args []string) (*services.NavigationResult, error) {
			return app.Workflows.SelectPhase(app.Ctx, org, args[0], args[1])
		})
}

// parseOptionalBool reads an optional true/false argument, defaulting to true
func parseOptionalBool(args []string, idx int) (bool, error) {
	if len(args) <= idx {
		return true, nil
	}
	value, err := strconv.ParseBool(args[idx])
	if err != nil {
		return false, fmt.Errorf("%q must be true or false", args[idx])
	}
	return value, nil
}

// SetManualCmd creates the setManual command
func SetManualCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setManual <event_id> <flag> [true|false]",
		Short: "Record a completion the system cannot observe, e.g. linktreeUpdated",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}
			value, err := parseOptionalBool(args, 2)
			if err != nil {
				return err
			}

			state, err := app.Workflows.SetManual(app.Ctx, org, args[0], model.ManualFlag(args[1]), value)
			if err != nil {
				return fmt.Errorf("failed to set manual flag: %w", err)
			}

			printWorkflow(os.Stdout, state, app.Cfg.Location())
			return nil
		},
	}
}

// SetOverrideCmd creates the setOverride command
func SetOverrideCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setOverride <event_id> <override> [true|false]",
		Short: "Force a step to read as complete, e.g. postsListed",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}
			value, err := parseOptionalBool(args, 2)
			if err != nil {
				return err
			}

			state, err := app.Workflows.SetOverride(app.Ctx, org, args[0], model.Override(args[1]), value)
			if err != nil {
				return fmt.Errorf("failed to set override: %w", err)
			}

			printWorkflow(os.Stdout, state, app.Cfg.Location())
			return nil
		},
	}
}

// SetShotgunURLCmd creates the setShotgunURL command
func SetShotgunURLCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setShotgunURL <event_id> <url>",
		Short: "Set the ticketing page linked from the campaign",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			if _, err := app.Workflows.SetShotgunURL(app.Ctx, org, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to set ticketing URL: %w", err)
			}

			fmt.Printf("\n✅ Ticketing URL set to %s\n\n", args[1])
			return nil
		},
	}
}

// AddPostCmd creates the addPost command
func AddPostCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addPost <event_id> <name>",
		Short: "Add a campaign post to an event's workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			postType, _ := cmd.Flags().GetString("type")
			networks, _ := cmd.Flags().GetStringSlice("networks")
			description, _ := cmd.Flags().GetString("description")
			caption, _ := cmd.Flags().GetString("caption")
			mediaURLs, _ := cmd.Flags().GetStringSlice("media")
			verified, _ := cmd.Flags().GetBool("verified")
			scheduled, _ := cmd.Flags().GetString("scheduled")

			input := services.PostInput{
				Name:        args[1],
				Type:        postType,
				Networks:    networks,
				Description: description,
				Caption:     caption,
				Verified:    verified,
			}
			if scheduled != "" {
				at, err := time.ParseInLocation(startLayout, scheduled, app.Cfg.Location())
				if err != nil {
					return fmt.Errorf("scheduled must look like %q: %w", startLayout, err)
				}
				input.ScheduledAt = &at
			}
			for _, u := range mediaURLs {
				input.Media = append(input.Media, model.Media{URL: u})
			}

			app.Logger.Debug("addPost command", zap.String("event_id", args[0]), zap.String("name", args[1]))

			_, post, err := app.Workflows.AddPost(app.Ctx, org, args[0], input)
			if err != nil {
				return fmt.Errorf("failed to add post: %w", err)
			}

			fmt.Printf("\n✅ Post %q added (%s)\n\n", post.Name, post.ID)
			return nil
		},
	}

	cmd.Flags().String("type", "", "Post type, e.g. story or reel")
	cmd.Flags().StringSlice("networks", nil, "Networks to post on")
	cmd.Flags().String("description", "", "What the post is about")
	cmd.Flags().String("caption", "", "Caption text")
	cmd.Flags().StringSlice("media", nil, "Media URLs")
	cmd.Flags().String("scheduled", "", "Publication time (\"2006-01-02 15:04\", local time)")
	cmd.Flags().Bool("verified", false, "Mark the post as verified")

	return cmd
}

// DeletePostCmd creates the deletePost command
func DeletePostCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deletePost <event_id> <post_id>",
		Short: "Remove a campaign post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			if _, err := app.Workflows.DeletePost(app.Ctx, org, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to delete post: %w", err)
			}

			fmt.Printf("\n✅ Post %s deleted\n\n", args[1])
			return nil
		},
	}
}

// PublishPostCmd creates the publishPost command
func PublishPostCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishPost <event_id> <post_id>",
		Short: "Publish a campaign post to the social account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			state, err := app.Integrations.PublishCampaignPost(app.Ctx, org, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to publish post: %w", err)
			}

			fmt.Printf("\n✅ Post %s published\n", args[1])
			printWorkflow(os.Stdout, state, app.Cfg.Location())
			return nil
		},
	}
}

// ProgressCmd creates the progress command
func ProgressCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <event_id>",
		Short: "Show the milestone timeline of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Org()
			if err != nil {
				return err
			}

			progress, err := app.Workflows.Progress(app.Ctx, org, args[0])
			if err != nil {
				return fmt.Errorf("failed to compute progress: %w", err)
			}

			fmt.Println()
			for _, m := range progress.Milestones {
				check := "[ ]"
				if m.Done {
					check = "[x]"
				}
				fmt.Printf("  %s %s\n", check, m.Label)
			}
			fmt.Printf("\n%d/%d done (%.0f%%)\n\n", progress.Done, len(progress.Milestones), progress.Ratio*100)

			return nil
		},
	}
}

// RecentMediaCmd creates the recentMedia command
func RecentMediaCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recentMedia",
		Short: "List recent posts on the social account with their engagement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			media, err := app.Integrations.RecentMedia(app.Ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to fetch recent media: %w", err)
			}

			fmt.Printf("\n%-20s  %-8s  %6s  %8s  %s\n", "Posted", "Type", "Likes", "Comments", "Link")
			for _, m := range media {
				fmt.Printf("%-20s  %-8s  %6d  %8d  %s\n", m.Timestamp, m.MediaType, m.LikeCount, m.CommentsCount, m.Permalink)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "How many posts to list (defaults to 12)")

	return cmd
}
