package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/cmd/bot/config"
	"github.com/conciergebot/concierge/pkg/logging"
	"github.com/conciergebot/concierge/pkg/messages"
	"github.com/conciergebot/concierge/pkg/ticket"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

const (
	// intakeModalPrefix prefixes the custom ID of the intake modal; the
	// chosen category rides in the suffix, so no server-side state is
	// needed between the two intake phases.
	intakeModalPrefix = "ticket_intake:"

	// inquiryInputID is the ID of the inquiry text input on the intake
	// modal.
	inquiryInputID = "inquiry"
)

// categorySlug returns the custom-ID-safe form of a category.
func categorySlug(c ticket.Category) string {
	switch c {
	case ticket.CategoryGeneral:
		return "general"
	case ticket.CategoryBugReport:
		return "bug"
	case ticket.CategoryPartnership:
		return "partnership"
	default:
		return ""
	}
}

func categoryFromSlug(slug string) (ticket.Category, error) {
	for _, c := range ticket.Categories() {
		if categorySlug(c) == slug {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category slug %q", slug)
}

// intakeButtonID is the custom ID of the panel button for a category.
func intakeButtonID(c ticket.Category) string {
	return "open_ticket_" + categorySlug(c)
}

func intakeModalID(c ticket.Category) string {
	return intakeModalPrefix + categorySlug(c)
}

// intakeLimiters rate limits panel button presses per user.
var intakeLimiters = struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
}{m: make(map[string]*rate.Limiter)}

func intakeLimiter(userID string) *rate.Limiter {
	intakeLimiters.mu.Lock()
	defer intakeLimiters.mu.Unlock()

	l, ok := intakeLimiters.m[userID]
	if !ok {
		l = rate.NewLimiter(rate.Every(3*time.Second), 2)
		intakeLimiters.m[userID] = l
	}
	return l
}

// sendPanelMessage sends the ticket panel into the given channel: one button
// per intake category.
func sendPanelMessage(a IApp, channel *discordgo.Channel) (*discordgo.Message, error) {
	const messageText = `Start A Chat
If you want to speak to a member of the team, please pick a category below to open a ticket.`

	buttons := make([]discordgo.MessageComponent, 0, len(ticket.Categories()))
	for _, c := range ticket.Categories() {
		buttons = append(buttons, discordgo.Button{
			Label:    string(c),
			Style:    discordgo.PrimaryButton,
			CustomID: intakeButtonID(c),
		})
	}

	// Create the message.
	message := discordgo.MessageSend{
		Content:         messageText,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: buttons,
			},
		},
	}

	// Send the message.
	msg, err := a.Session().ChannelMessageSendComplex(channel.ID, &message)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}

	return msg, nil
}

// intakeButtonProcessor handles intake phase one: the category pick. The
// user's open ticket count is checked up front so a user at the cap never
// sees the modal; the count is re-validated on provisioning either way.
func intakeButtonProcessor(category ticket.Category) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		userID := i.Member.User.ID

		if !intakeLimiter(userID).Allow() {
			return respondEphemeral(a, i, messages.ErrUserRateLimited)
		}

		if a.Tickets().CountOpen(userID) >= ticket.MaxOpenPerOwner {
			return respondEphemeral(a, i, messages.ErrUserQuotaExceeded)
		}

		// Prompt for the inquiry text, bound to the chosen category.
		err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: &discordgo.InteractionResponseData{
				CustomID: intakeModalID(category),
				Title:    fmt.Sprintf("%s Ticket", category),
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{
						Components: []discordgo.MessageComponent{
							discordgo.TextInput{
								CustomID:    inquiryInputID,
								Label:       "How can we help?",
								Style:       discordgo.TextInputParagraph,
								Placeholder: "Please describe your issue.",
								Required:    true,
								MaxLength:   ticket.MaxInquiryLength,
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
}

// intakeModalProcessor handles intake phase two: the inquiry submission. It
// packages the provisioning request and hands it to the provisioner.
func intakeModalProcessor(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()

	category, err := categoryFromSlug(strings.TrimPrefix(data.CustomID, intakeModalPrefix))
	if err != nil {
		return fmt.Errorf("error resolving category: %w", err)
	}

	inquiry := modalInputValue(data, inquiryInputID)

	// Channel creation takes several round trips; acknowledge now and
	// follow up when done.
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error deferring response: %w", err)
	}

	req, err := ticket.NewProvisionRequest(i.GuildID, i.Member.User.ID, i.Member.User.Username, string(category), inquiry)
	if err != nil {
		a.Log().Warn("Rejected intake submission", slog.String(logging.KeyError, err.Error()))
		return editResponse(a, i, messages.ErrUserErrorProcessing)
	}
	req.SupportRoleIDs = supportRoles(a, i.GuildID)

	t, err := a.Provisioner().Provision(req)
	switch {
	case errors.Is(err, ticket.ErrQuotaExceeded):
		return editResponse(a, i, messages.ErrUserQuotaExceeded)
	case err != nil:
		if editErr := editResponse(a, i, messages.ErrUserProvisioningFailed); editErr != nil {
			return errors.Join(err, editErr)
		}
		return err
	}

	return editResponse(a, i, fmt.Sprintf("Your ticket has been created: <#%s>", t.ChannelID))
}

// supportRoles assembles the ordered support role list for a guild: the
// guild-configured role first, then the environment-configured roles.
func supportRoles(a IApp, guildID string) []string {
	roles := make([]string, 0, len(config.SupportRoleIds)+1)

	guild, err := a.GuildDal().GetGuildByID(context.Background(), guildID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		a.Log().Warn("Error getting guild configuration, using environment support roles",
			slog.String(logging.KeyGuild, guildID))
	} else if err == nil && guild.Ticketing.RoleID != "" {
		roles = append(roles, guild.Ticketing.RoleID)
	}

	roles = append(roles, config.SupportRoleIds...)
	return roles
}

// modalInputValue extracts the value of a text input from a modal
// submission.
func modalInputValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			input, ok := comp.(*discordgo.TextInput)
			if !ok {
				continue
			}
			if input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}
