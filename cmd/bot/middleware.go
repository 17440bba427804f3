package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/cmd/bot/monitoring"
	"github.com/conciergebot/concierge/pkg/logging"
	"github.com/conciergebot/concierge/pkg/request"
	"github.com/gorilla/mux"
)

// commandController resolves a slash command interaction to the processor for
// its sub command.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor handles a single interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes interactions to their controllers: slash commands
// by command name, buttons by custom ID, modal submissions by custom ID
// prefix. Every failure ends in an ephemeral apology to the invoker; no error
// in this path is fatal to the process.
func interactionHandler(a IApp, slash map[string]commandController, buttons, modals map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleSlashCommand(a, i, slash)
		case discordgo.InteractionMessageComponent:
			handleComponent(a, i, buttons)
		case discordgo.InteractionModalSubmit:
			handleModal(a, i, modals)
		default:
			return
		}
	}
}

func handleSlashCommand(a IApp, i *discordgo.InteractionCreate, controllers map[string]commandController) {
	name := i.ApplicationCommandData().Name
	a.Log().Debug("Handling interaction " + name)

	t := time.Now().UTC()
	defer func() {
		monitoring.DiscordCommandDuration.WithLabelValues(name).Observe(time.Since(t).Seconds())
	}()

	controller, ok := controllers[name]
	if !ok {
		a.Log().Error("No controller found for command", slog.String("command", name))

		if err := respondError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	processor, err := controller(a, i)
	if err != nil {
		a.Log().Error(fmt.Sprintf("Error getting processor for command %s", name),
			slog.String(logging.KeyError, err.Error()))

		if err := respondError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	} else if processor == nil {
		// The controller has already responded, e.g. a permissions
		// rejection.
		return
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing command %s", name),
			slog.String(logging.KeyError, err.Error()))

		if err := respondError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func handleComponent(a IApp, i *discordgo.InteractionCreate, processors map[string]commandProcessor) {
	customID := i.MessageComponentData().CustomID
	a.Log().Debug("Handling component interaction " + customID)

	processor, ok := processors[customID]
	if !ok {
		a.Log().Error("No processor found for component", slog.String("custom_id", customID))
		return
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing component %s", customID),
			slog.String(logging.KeyError, err.Error()))

		if err := respondError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func handleModal(a IApp, i *discordgo.InteractionCreate, processors map[string]commandProcessor) {
	customID := i.ModalSubmitData().CustomID
	a.Log().Debug("Handling modal submission " + customID)

	for prefix, processor := range processors {
		if !strings.HasPrefix(customID, prefix) {
			continue
		}

		if err := processor(a, i); err != nil {
			a.Log().Error(fmt.Sprintf("Error processing modal %s", customID),
				slog.String(logging.KeyError, err.Error()))

			if err := respondError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
		return
	}

	a.Log().Error("No processor found for modal", slog.String("custom_id", customID))
}
