package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

// actorFlags identify who runs a proposal command.
type actorFlags struct {
	id        string
	organizer bool
}

func (f *actorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "actor", "cli", "Name recorded as the acting user")
	cmd.Flags().BoolVar(&f.organizer, "organizer", false, "Act with the organizer role")
}

func (f *actorFlags) actor() ports.Actor {
	return ports.Actor{ID: f.id, IsOrganizer: f.organizer}
}

func proposalCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Inspect proposals and apply review actions",
	}
	cmd.AddCommand(proposalShowCmd(flags), proposalActCmd(flags))
	return cmd
}

func proposalShowCmd(flags *globalFlags) *cobra.Command {
	var (
		who     actorFlags
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "show <proposal-id>",
		Short: "Print a proposal and the actions allowed for the actor",
		Args:  exactArgs("proposal-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				view, err := a.Proposals.Get(commandContext(cmd), args[0], who.actor())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), view)
				}
				printProposal(cmd.OutOrStdout(), view.Proposal, view.AllowedActions)
				return nil
			})
		},
	}
	who.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the proposal as JSON")
	return cmd
}

func proposalActCmd(flags *globalFlags) *cobra.Command {
	var (
		who     actorFlags
		comment string
	)
	cmd := &cobra.Command{
		Use:   "act <proposal-id> <action>",
		Short: "Apply a review action and send its notifications",
		Long: `Apply a review action to a proposal. Actions are submit, unsubmit,
accept, reject, confirm, withdraw, remind and delete; accept, reject and
remind need --organizer.`,
		Example: `  confdesk proposal act p-42 accept --organizer --actor kari --comment "Great fit for day one"
  confdesk proposal act p-42 confirm --actor ada`,
		Args: exactArgs("proposal-id", "action"),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := domain.ParseProposalAction(args[1])
			if err != nil {
				return err
			}
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				res, err := a.Proposals.Act(commandContext(cmd), args[0], action, comment, who.actor())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s (%d notifications sent)\n",
					res.Proposal.ID, res.PreviousStatus, res.Proposal.Status, res.Notifications)
				return nil
			})
		},
	}
	who.register(cmd)
	cmd.Flags().StringVar(&comment, "comment", "", "Comment included in the speaker email (Markdown)")
	return cmd
}

func printProposal(w io.Writer, p domain.Proposal, allowed []domain.ProposalAction) {
	t := newTableWriter("Field", "Value")
	t.addRow("ID", p.ID)
	t.addRow("Conference", p.ConferenceID)
	t.addRow("Title", p.Title)
	speaker := p.SpeakerName
	if p.SpeakerEmail != "" {
		speaker = strings.TrimSpace(speaker + " <" + p.SpeakerEmail + ">")
	}
	t.addRow("Speaker", speaker)
	t.addRow("Status", string(p.Status))

	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	if len(names) == 0 {
		names = []string{"none"}
	}
	t.addRow("Allowed actions", strings.Join(names, ", "))
	t.write(w)
}
