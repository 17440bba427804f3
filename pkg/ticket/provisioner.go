package ticket

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/pkg/logging"
	"github.com/conciergebot/concierge/pkg/ticket/monitoring"
)

const (
	// categoryName is the name given to the container category when none
	// exists yet.
	categoryName = "Support Tickets"
)

// Provisioner orchestrates opening a ticket: quota check, channel naming,
// container find-or-create, access policy, channel creation, registry insert
// and the welcome message.
type Provisioner struct {
	// l is the logger.
	l *slog.Logger

	// platform is the chat platform.
	platform Platform

	// registry is the store of open tickets.
	registry *Registry

	// operatorID is the bot's own user ID.
	operatorID string

	// now returns the current time.
	now func() time.Time

	// ownersMu guards owners.
	ownersMu sync.Mutex

	// owners serialises provisioning per owner, closing the window in
	// which two near-simultaneous requests could both pass the quota
	// check.
	owners map[string]*sync.Mutex
}

// NewProvisioner creates a new ticket provisioner.
func NewProvisioner(l *slog.Logger, platform Platform, registry *Registry, operatorID string) *Provisioner {
	return &Provisioner{
		l:          l,
		platform:   platform,
		registry:   registry,
		operatorID: operatorID,
		now:        time.Now,
		owners:     make(map[string]*sync.Mutex),
	}
}

// Provision opens a ticket for the given request. It returns the created
// ticket, or ErrQuotaExceeded when the owner is at the cap, or
// ErrProvisioningFailed when any platform call failed. A container or channel
// created before a later step fails is not rolled back.
func (p *Provisioner) Provision(req *ProvisionRequest) (*Ticket, error) {
	unlock := p.lockOwner(req.OwnerID)
	defer unlock()

	// Re-validate the quota; the intake check may have gone stale while
	// other requests completed.
	if p.registry.CountOpen(req.OwnerID) >= MaxOpenPerOwner {
		monitoring.QuotaRejections.Inc()
		return nil, ErrQuotaExceeded
	}

	createdAt := p.now().UTC()
	name := ChannelName(req.OwnerName, createdAt)

	// Ensure that the container category exists for ticket channels.
	category, err := p.ensureCategory(req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("%w: ensuring category: %w", ErrProvisioningFailed, err)
	}

	overwrites, err := p.buildPolicy(req)
	if err != nil {
		return nil, fmt.Errorf("%w: building access policy: %w", ErrProvisioningFailed, err)
	}

	channel, err := p.platform.CreateChannel(req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket for %s", req.Category, req.OwnerName),
		PermissionOverwrites: overwrites,
		ParentID:             category.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating channel: %w", ErrProvisioningFailed, err)
	}

	t := &Ticket{
		ChannelID: channel.ID,
		GuildID:   req.GuildID,
		OwnerID:   req.OwnerID,
		OwnerName: req.OwnerName,
		Category:  req.Category,
		Inquiry:   req.Inquiry,
		State:     StateOpen,
		CreatedAt: createdAt,
	}

	// The per-owner lock makes the earlier count authoritative, so this
	// only fails if the platform handed out a duplicate channel ID.
	if err := p.registry.Insert(t); err != nil {
		return nil, fmt.Errorf("%w: registering ticket: %w", ErrProvisioningFailed, err)
	}

	monitoring.TicketsOpened.WithLabelValues(string(t.Category)).Inc()
	monitoring.OpenTickets.Inc()

	p.l.Info("Ticket provisioned",
		slog.String(logging.KeyChannel, t.ChannelID),
		slog.String(logging.KeyUser, t.OwnerID),
		slog.String("category", string(t.Category)),
	)

	// The ticket is kept on record even if the welcome message fails; the
	// channel exists and the owner can use it.
	if _, err := p.platform.SendMessage(channel.ID, WelcomeMessage(t)); err != nil {
		return nil, fmt.Errorf("%w: sending welcome message: %w", ErrProvisioningFailed, err)
	}

	return t, nil
}

// ensureCategory finds the container category for ticket channels, creating
// it if it does not exist yet.
func (p *Provisioner) ensureCategory(guildID string) (*discordgo.Channel, error) {
	channels, err := p.platform.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing channels: %w", err)
	}

	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildCategory {
			continue
		}
		name := strings.ToLower(c.Name)
		if strings.Contains(name, "support") && strings.Contains(name, "ticket") {
			return c, nil
		}
	}

	p.l.Warn("Ticket category does not exist, creating it now", slog.String(logging.KeyGuild, guildID))

	category, err := p.platform.CreateChannel(guildID, discordgo.GuildChannelCreateData{
		Name: categoryName,
		Type: discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			// Deny @everyone from seeing the category.
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			// The bot manages the category.
			{
				ID:    p.operatorID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionManageChannels,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return category, nil
}

// buildPolicy computes the overwrite list for the ticket channel. When no
// support roles are configured, every role with channel-management capability
// is granted access instead, in the order the platform lists them.
func (p *Provisioner) buildPolicy(req *ProvisionRequest) ([]*discordgo.PermissionOverwrite, error) {
	in := PolicyInput{
		OwnerID:        req.OwnerID,
		OperatorID:     p.operatorID,
		DefaultRoleID:  req.GuildID,
		SupportRoleIDs: req.SupportRoleIDs,
	}

	if len(in.SupportRoleIDs) == 0 {
		roles, err := p.platform.GuildRoles(req.GuildID)
		if err != nil {
			return nil, fmt.Errorf("error listing roles: %w", err)
		}
		for _, role := range roles {
			if role.ID == req.GuildID {
				continue
			}
			if role.Permissions&discordgo.PermissionManageChannels != 0 {
				in.ManagerRoleIDs = append(in.ManagerRoleIDs, role.ID)
			}
		}
	}

	return BuildOverwrites(in), nil
}

// lockOwner locks provisioning for the given owner and returns the unlock.
func (p *Provisioner) lockOwner(ownerID string) func() {
	p.ownersMu.Lock()
	mu, ok := p.owners[ownerID]
	if !ok {
		mu = new(sync.Mutex)
		p.owners[ownerID] = mu
	}
	p.ownersMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
