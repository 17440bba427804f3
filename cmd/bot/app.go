package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/cmd/bot/config"
	"github.com/conciergebot/concierge/cmd/bot/monitoring"
	"github.com/conciergebot/concierge/pkg/dataaccess"
	"github.com/conciergebot/concierge/pkg/logging"
	"github.com/conciergebot/concierge/pkg/request"
	"github.com/conciergebot/concierge/pkg/ticket"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// GuildDal returns the guild data access layer.
	GuildDal() dataaccess.GuildDal

	// Tickets returns the open ticket registry.
	Tickets() *ticket.Registry

	// Provisioner returns the ticket provisioner.
	Provisioner() *ticket.Provisioner

	// Lifecycle returns the ticket lifecycle controller.
	Lifecycle() *ticket.Lifecycle
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// guildDal is the guild data access layer.
	guildDal dataaccess.GuildDal

	// registry is the in-memory registry of open tickets. It is volatile;
	// tickets do not survive a restart.
	registry *ticket.Registry

	// provisioner is the ticket provisioner.
	provisioner *ticket.Provisioner

	// lifecycle is the ticket lifecycle controller.
	lifecycle *ticket.Lifecycle
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger: l,
		r:      r,
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	// Wire the ticket core before any gateway event can reach a handler.
	if err := a.registerTicketCore(); err != nil {
		return fmt.Errorf("error registering ticket core: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listerner for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Create event notifier. This is used to runServer events. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

// registerTicketCore builds the ticket registry, provisioner and lifecycle
// controller on top of the session. The bot's own identity comes from a REST
// lookup so the core can be wired before the gateway opens.
func (a *App) registerTicketCore() error {
	me, err := a.s.User("@me")
	if err != nil {
		return fmt.Errorf("error getting bot user: %w", err)
	}

	platform := newSessionPlatform(a.s)

	a.guildDal = dataaccess.NewGuildDal()
	a.registry = ticket.NewRegistry()
	a.provisioner = ticket.NewProvisioner(a.Logger, platform, a.registry, me.ID)
	a.lifecycle = ticket.NewLifecycle(a.Logger, platform, a.registry)
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Channel deleted outside the bot, e.g. by an operator. This is the
	// sole reconciliation against registry/channel drift.
	a.s.AddHandler(channelDeleteHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandController{
			setupCmdName:  setupCmdController,
			TicketCmdName: ticketCmdController,
		},
		// Button Controllers
		map[string]commandProcessor{
			intakeButtonID(ticket.CategoryGeneral):     intakeButtonProcessor(ticket.CategoryGeneral),
			intakeButtonID(ticket.CategoryBugReport):   intakeButtonProcessor(ticket.CategoryBugReport),
			intakeButtonID(ticket.CategoryPartnership): intakeButtonProcessor(ticket.CategoryPartnership),
			ticket.CloseTicketButtonID:                 closeTicketProcessor,
			ticket.InfoTicketButtonID:                  infoTicketProcessor,
		},
		// Modal Controllers, keyed by custom ID prefix.
		map[string]commandProcessor{
			intakeModalPrefix: intakeModalProcessor,
		}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		// Register the setup command.
		if _, err := a.Session().ApplicationCommandCreate(config.ApplicationId, g.ID, setupCmd); err != nil {
			return fmt.Errorf("error creating setup command for guild %s: %w", g.ID, err)
		}

		// Register the ticket command.
		if _, err := a.Session().ApplicationCommandCreate(config.ApplicationId, g.ID, ticketCmd); err != nil {
			return fmt.Errorf("error creating ticket command for guild %s: %w", g.ID, err)
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Delete slash commands for each guild.
	for _, guild := range guilds {
		// Delete the setup command.
		if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, setupCmd.ID); err != nil {
			return fmt.Errorf("error deleting setup command for guild %s: %w", guild.ID, err)
		}

		// Delete the ticket command.
		if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, ticketCmd.ID); err != nil {
			return fmt.Errorf("error deleting command for guild %s: %w", guild.ID, err)
		}
	}
	return nil
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) GuildDal() dataaccess.GuildDal {
	return a.guildDal
}

func (a *App) Tickets() *ticket.Registry {
	return a.registry
}

func (a *App) Provisioner() *ticket.Provisioner {
	return a.provisioner
}

func (a *App) Lifecycle() *ticket.Lifecycle {
	return a.lifecycle
}
