package ticket

import (
	"errors"
	"fmt"
	"strings"
)

// ProvisionRequest is the product of a completed intake flow: everything the
// provisioner needs to open a ticket.
type ProvisionRequest struct {
	// GuildID is the guild to open the ticket in.
	GuildID string

	// OwnerID is the user opening the ticket.
	OwnerID string

	// OwnerName is the owner's display name, used for channel naming.
	OwnerName string

	// Category is the chosen intake category.
	Category Category

	// Inquiry is the free text the owner supplied.
	Inquiry string

	// SupportRoleIDs are the support roles to grant on the channel, in
	// order. Empty means the provisioner falls back to granting every
	// role that can manage channels.
	SupportRoleIDs []string
}

// NewProvisionRequest validates the intake submission and packages it into a
// provisioning request. The inquiry is required, trimmed, and bounded to
// MaxInquiryLength. The category must be one of the enumerated set.
//
// Intake itself is stateless: phase one (category pick) is correlated with
// phase two (inquiry submission) by the platform's interaction chaining, so
// an abandoned flow leaks nothing.
func NewProvisionRequest(guildID, ownerID, ownerName, category, inquiry string) (*ProvisionRequest, error) {
	cat, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}

	inquiry = strings.TrimSpace(inquiry)
	if inquiry == "" {
		return nil, errors.New("inquiry must not be empty")
	}
	if len(inquiry) > MaxInquiryLength {
		return nil, fmt.Errorf("inquiry exceeds %d characters", MaxInquiryLength)
	}

	return &ProvisionRequest{
		GuildID:   guildID,
		OwnerID:   ownerID,
		OwnerName: ownerName,
		Category:  cat,
		Inquiry:   inquiry,
	}, nil
}
