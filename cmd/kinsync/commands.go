package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/kinsync/internal/observability"
	"github.com/hrygo/kinsync/plugin/ai/aitime"
	"github.com/hrygo/kinsync/server/service/appointment"
	"github.com/hrygo/kinsync/server/service/availability"
	"github.com/hrygo/kinsync/server/service/notify"
	"github.com/hrygo/kinsync/server/service/schedule"
)

func newResolveCmd() *cobra.Command {
	var tz, now, contextText string
	var texts []string
	cmd := &cobra.Command{
		Use:   "resolve [text]",
		Short: "Resolve natural-language time expressions",
		Long:  "Resolve the joined arguments as one expression, or each --text value as a batch.",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			batch := texts
			if len(args) > 0 {
				batch = append([]string{strings.Join(args, " ")}, texts...)
			}
			if len(batch) == 0 {
				return errors.New("nothing to resolve")
			}
			at := time.Now()
			if now != "" {
				t, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return errors.Wrap(err, "invalid --now")
				}
				at = t
			}
			if tz == "" {
				tz = a.profile.DefaultTimezone
			}

			traceID := observability.TraceIDFromContext(ctx)
			reqs := make([]aitime.ResolveRequest, len(batch))
			for i, text := range batch {
				reqs[i] = aitime.ResolveRequest{
					WhenText: text,
					Timezone: tz,
					Now:      at,
					TraceID:  traceID,
					Context:  contextText,
				}
			}
			results := a.resolver.ResolveMany(ctx, reqs)
			if len(results) == 1 {
				return printJSON(a.out, results[0])
			}
			return printJSON(a.out, results)
		}),
	}
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone used to interpret the text")
	cmd.Flags().StringVar(&now, "now", "", "reference instant (RFC 3339), defaults to the current time")
	cmd.Flags().StringVar(&contextText, "context", "", "surrounding text passed to the AI fallback")
	cmd.Flags().StringArrayVar(&texts, "text", nil, "expression to resolve (repeatable)")
	return cmd
}

func newGroupCmd() *cobra.Command {
	group := &cobra.Command{Use: "group", Short: "Manage groups"}

	var tz string
	var members []string
	create := &cobra.Command{
		Use:   "create <group-id>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			state, err := a.schedule.CreateGroup(ctx, &schedule.CreateGroupRequest{
				GroupID:  args[0],
				Timezone: tz,
				Members:  members,
			})
			if err != nil {
				return err
			}
			return printJSON(a.out, state)
		}),
	}
	create.Flags().StringVar(&tz, "tz", "", "group timezone")
	create.Flags().StringSliceVar(&members, "member", nil, "member email (repeatable)")

	show := &cobra.Command{
		Use:   "show <group-id>",
		Short: "Print a group document",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			state, err := a.schedule.GetGroup(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(a.out, state)
		}),
	}

	group.AddCommand(create, show)
	return group
}

func newAppointmentCmd() *cobra.Command {
	appt := &cobra.Command{Use: "appointment", Aliases: []string{"appt"}, Short: "Manage appointments"}

	var req schedule.CreateAppointmentRequest
	create := &cobra.Command{
		Use:   "create <group-id>",
		Short: "Create an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			res, err := a.schedule.CreateAppointment(ctx, args[0], actor, &req)
			if err != nil {
				return err
			}
			return printJSON(a.out, res)
		}),
	}
	create.Flags().StringVar(&req.Title, "title", "", "appointment title")
	create.Flags().StringVar(&req.Location, "location", "", "location")
	create.Flags().StringVar(&req.Notes, "notes", "", "private notes")
	create.Flags().StringVar(&req.WhenText, "when", "", "natural-language time")
	create.Flags().StringSliceVar(&req.People, "person", nil, "participant email (repeatable)")

	propose := &cobra.Command{
		Use:   "propose <group-id> <appointment-id> <text>",
		Short: "Propose a time for an appointment",
		Args:  cobra.MinimumNArgs(3),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			res, err := a.schedule.ProposeTime(ctx, args[0], args[1], actor, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return printJSON(a.out, res)
		}),
	}

	var operator string
	constrain := &cobra.Command{
		Use:   "constrain <group-id> <appointment-id> <field> <value>",
		Short: "Set the acting member's constraint on a field",
		Args:  cobra.ExactArgs(4),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			res, err := a.schedule.SetConstraint(ctx, args[0], args[1], actor, appointment.ConstraintInput{
				Field:    args[2],
				Operator: appointment.Operator(operator),
				Value:    args[3],
			})
			if err != nil {
				return err
			}
			return printJSON(a.out, res)
		}),
	}
	constrain.Flags().StringVar(&operator, "op", string(appointment.OpEq), "constraint operator")

	suggest := &cobra.Command{
		Use:   "suggest <group-id> <appointment-id> <field> <value>",
		Short: "Suggest a value for a field",
		Args:  cobra.ExactArgs(4),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			res, err := a.schedule.Suggest(ctx, args[0], args[1], actor, args[2], args[3])
			if err != nil {
				return err
			}
			return printJSON(a.out, res)
		}),
	}

	withdraw := &cobra.Command{
		Use:   "withdraw <group-id> <appointment-id> <suggestion-id>",
		Short: "Withdraw one of the acting member's suggestions",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			res, err := a.schedule.WithdrawSuggestion(ctx, args[0], args[1], actor, args[2])
			if err != nil {
				return err
			}
			return printJSON(a.out, res)
		}),
	}

	appt.AddCommand(create, propose, constrain, suggest, withdraw)
	return appt
}

func newAvailabilityCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "availability <group-id> <person> <text>",
		Short: "Record when a person is available or unavailable",
		Args:  cobra.MinimumNArgs(3),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			res, err := a.schedule.AddAvailability(ctx, args[0], args[1], availability.RuleKind(kind), strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return printJSON(a.out, res)
		}),
	}
	cmd.Flags().StringVar(&kind, "kind", string(availability.KindUnavailable), "available or unavailable")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <group-id> <appointment-id>",
		Short: "Show participant availability and reconciliation for an appointment",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			appt, err := findAppointment(ctx, a, args[0], args[1])
			if err != nil {
				return err
			}
			statuses, err := a.schedule.CheckAvailability(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(a.out, map[string]any{
				"availability":   statuses,
				"reconciliation": appointment.EvaluateReconciliation(appt, actor),
				"snapshot":       appointment.BuildAppointmentSnapshot(appt),
			})
		}),
	}
}

func newICSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ics <group-id> <appointment-id>",
		Short: "Render the current state of an appointment as an ICS file",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			appt, err := findAppointment(ctx, a, args[0], args[1])
			if err != nil {
				return err
			}
			ns := notify.NewNotificationSnapshot(notify.SnapshotInput{
				GroupID:        args[0],
				Appointment:    appt,
				Reconciliation: appointment.EvaluateReconciliation(appt, actor),
				ActorEmail:     actor,
				BaseURL:        a.profile.AppBaseURL,
			})
			file, ok := notify.SnapshotToICS(ns)
			if !ok {
				return errors.Errorf("appointment %s has no start time", appt.ID)
			}
			_, err = fmt.Fprint(a.out, file.Content)
			return err
		}),
	}
}

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed <group-id>",
		Short: "Print the group's change feed (Atom)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			atom, err := a.schedule.ChangeFeed(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, atom)
			return err
		}),
	}
}

func findAppointment(ctx context.Context, a *app, groupID, appointmentID string) (appointment.Appointment, error) {
	state, err := a.schedule.GetGroup(ctx, groupID)
	if err != nil {
		return appointment.Appointment{}, err
	}
	for _, appt := range state.Appointments {
		if appt.ID == appointmentID {
			return appt, nil
		}
	}
	return appointment.Appointment{}, errors.Errorf("appointment %s not found", appointmentID)
}
