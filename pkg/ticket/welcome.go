package ticket

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

const (
	// CloseTicketButtonID is the ID for the close ticket button.
	CloseTicketButtonID = "close_ticket_button"

	// InfoTicketButtonID is the ID for the ticket info button.
	InfoTicketButtonID = "info_ticket_button"
)

const (
	// CloseEmoji is the emoji that will be used for the close button. (Padlock)
	CloseEmoji = "\U0001F510"

	// InfoEmoji is the emoji that will be used for the info button. (Information)
	InfoEmoji = "ℹ️"
)

// embedColour is the colour used for ticket embeds.
const embedColour = 0x5865F2

// WelcomeMessage builds the message sent into a freshly provisioned ticket
// channel: an owner mention, an embed describing the ticket, and the
// close/info controls.
func WelcomeMessage(t *Ticket) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", t.OwnerID),
		Embed: &discordgo.MessageEmbed{
			Title: fmt.Sprintf("%s Ticket", t.Category),
			Description: fmt.Sprintf(
				"Hello <@%s>, welcome to your support ticket!\n\nA staff member will assist you shortly.",
				t.OwnerID,
			),
			Color: embedColour,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Category",
					Value:  string(t.Category),
					Inline: true,
				},
				{
					Name:  "Inquiry",
					Value: t.Inquiry,
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Ticket created by %s", t.OwnerName),
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Close", CloseEmoji),
						Style:    discordgo.DangerButton,
						CustomID: CloseTicketButtonID,
					},
					discordgo.Button{
						Label:    fmt.Sprintf("%s Info", InfoEmoji),
						Style:    discordgo.SecondaryButton,
						CustomID: InfoTicketButtonID,
					},
				},
			},
		},
	}
}
