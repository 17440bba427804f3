package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/pkg/custom"
	"github.com/conciergebot/concierge/pkg/entities"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// setupCmdName is the command for all configuration commands.
	setupCmdName = "setup"

	// enableTicketingCmdName is the sub command that enables ticketing.
	enableTicketingCmdName = "ticketing_enable"

	// disableTicketingCmdName is the sub command that disables ticketing.
	disableTicketingCmdName = "ticketing_disable"

	// channelCmdName is the text for the channel option.
	channelCmdName = "channel"

	// roleCmdName is the text for the role option.
	roleCmdName = "role"
)

var (
	// setupCmd is the command for all configuration commands.
	setupCmd = &discordgo.ApplicationCommand{
		Name:        setupCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for all configuration commands.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        enableTicketingCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This posts the ticket panel in the channel you specify.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelCmdName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "This is the channel you want the ticket panel in.",
						Required:    true,
					},
					{
						Name:        roleCmdName,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the support role you want to handle tickets.",
						Required:    false,
					},
				},
			},
			{
				Name:        disableTicketingCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This will disable ticketing for your server.",
			},
		},
	}
)

func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Ensure the user is an administrator.
	if i.Member.Permissions&discordgo.PermissionAdministrator != discordgo.PermissionAdministrator {
		if err := respondEphemeral(a, i, "You must be an administrator to use this command"); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}

	// Extract the sub command.
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case enableTicketingCmdName:
		return enableTicketingProcessor, nil
	case disableTicketingCmdName:
		return disableTicketingProcessor, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// enableTicketingProcessor posts (or revives) the ticket panel and stores the
// guild's ticketing configuration.
func enableTicketingProcessor(a IApp, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options[0].Options

	// Extract the channel provided.
	channel := opts[0].ChannelValue(a.Session())

	// Ensure the channel is a text channel.
	if channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for the ticket panel.")
	}

	ctx := context.Background()

	// Get the guild.
	guild, err := a.GuildDal().GetGuildByID(ctx, i.GuildID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("error getting guild: %w", err)
	}

	if guild == nil {
		guild = &entities.Guild{
			ID: i.GuildID,
		}
	}

	// Enable ticketing for the guild.
	guild.Ticketing.Enabled = true
	guild.Ticketing.ChannelID = channel.ID
	guild.Ticketing.EnabledAt = custom.Datetime(time.Now().UTC())

	// Set the support role if one was provided.
	if len(opts) > 1 {
		role := opts[1].RoleValue(a.Session(), i.GuildID)
		guild.Ticketing.RoleID = role.ID
	}

	msg := new(discordgo.Message)

	// Check to see if the panel message still exists.
	if guild.Ticketing.PanelMessageID != "" {
		msg, err = a.Session().ChannelMessage(channel.ID, guild.Ticketing.PanelMessageID)
		// If the message does not exist, set the message ID to an empty string.
		if err != nil {
			var restErr *discordgo.RESTError
			ok := errors.As(err, &restErr)
			if ok && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
				guild.Ticketing.PanelMessageID = ""
			} else {
				return fmt.Errorf("error getting panel message: %w", err)
			}
		}

		if msg == nil {
			guild.Ticketing.PanelMessageID = ""
		}
	}

	// If the panel message ID is empty, send a new panel.
	if guild.Ticketing.PanelMessageID == "" {
		msg, err = sendPanelMessage(a, channel)
		if err != nil {
			return fmt.Errorf("error sending panel message: %w", err)
		}
	}

	// Set the panel message ID.
	guild.Ticketing.PanelMessageID = msg.ID

	// Save the guild.
	if err := a.GuildDal().SaveGuild(ctx, guild); err != nil {
		return fmt.Errorf("error saving guild: %w", err)
	}

	// Respond to the interaction saying that ticketing has been enabled in channel <channel>.
	if err := respondEphemeral(a, i, fmt.Sprintf("Ticketing has been enabled in channel <#%s>", channel.ID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	return nil
}

// disableTicketingProcessor disables ticketing for the guild.
func disableTicketingProcessor(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	// Get the guild.
	guild, err := a.GuildDal().GetGuildByID(ctx, i.GuildID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("error getting guild: %w", err)
	}

	if guild == nil {
		guild = &entities.Guild{
			ID: i.GuildID,
		}
	}

	// Disable ticketing for the guild.
	guild.Ticketing.Enabled = false

	// Save the guild.
	if err := a.GuildDal().SaveGuild(ctx, guild); err != nil {
		return fmt.Errorf("error saving guild: %w", err)
	}

	// Respond to the interaction saying that ticketing has been disabled.
	if err := respondEphemeral(a, i, "Ticketing has been disabled"); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	return nil
}
