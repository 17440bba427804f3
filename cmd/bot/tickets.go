package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/pkg/messages"
	"github.com/conciergebot/concierge/pkg/ticket"
)

const (
	// TicketCmdName is the command for controlling tickets.
	TicketCmdName = "ticket"

	// CloseCmdName is the sub command for closing the ticket.
	CloseCmdName = "close"

	// InfoCmdName is the sub command for describing the ticket.
	InfoCmdName = "info"
)

var (
	// ticketCmd is the command for controlling tickets.
	ticketCmd = &discordgo.ApplicationCommand{
		Name:        TicketCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for controlling tickets.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        CloseCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This closes the ticket for the channel that the command was executed in.",
			},
			{
				Name:        InfoCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This shows the details of the ticket for the channel that the command was executed in.",
			},
		},
	}
)

func ticketCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Extract the sub command.
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case CloseCmdName:
		return closeTicketProcessor, nil
	case InfoCmdName:
		return infoTicketProcessor, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// closeTicketProcessor handles both the close button and the close sub
// command. The registry entry is removed before the channel deletion runs, so
// nothing else can act on the ticket while it winds down.
func closeTicketProcessor(a IApp, i *discordgo.InteractionCreate) error {
	// Get the channel name; the lifecycle controller validates it against
	// the ticket naming convention.
	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting channel: %w", err)
	}

	if _, err := a.Lifecycle().RequestClose(i.ChannelID, channel.Name); err != nil {
		if errors.Is(err, ticket.ErrNotATicketChannel) {
			return respondEphemeral(a, i, messages.ErrUserNotATicketChannel)
		}
		return fmt.Errorf("error closing ticket: %w", err)
	}

	return respondEphemeral(a, i, "This ticket is now closing.")
}

// infoTicketProcessor handles both the info button and the info sub command.
func infoTicketProcessor(a IApp, i *discordgo.InteractionCreate) error {
	t, err := a.Lifecycle().Describe(i.ChannelID)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			return respondEphemeral(a, i, messages.ErrUserTicketNotFound)
		}
		return fmt.Errorf("error describing ticket: %w", err)
	}

	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{
				{
					Title: fmt.Sprintf("%s Ticket", t.Category),
					Fields: []*discordgo.MessageEmbedField{
						{
							Name:   "Opened By",
							Value:  fmt.Sprintf("<@%s>", t.OwnerID),
							Inline: true,
						},
						{
							Name:   "Opened At",
							Value:  t.CreatedAt.Format(time.RFC1123),
							Inline: true,
						},
						{
							Name:  "Inquiry",
							Value: t.Inquiry,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// channelDeleteHandler reconciles the registry when a ticket channel is
// deleted by any path other than a close request.
func channelDeleteHandler(a IApp) func(s *discordgo.Session, c *discordgo.ChannelDelete) {
	return func(_ *discordgo.Session, c *discordgo.ChannelDelete) {
		a.Lifecycle().OnExternalRemoval(c.ID)
	}
}
