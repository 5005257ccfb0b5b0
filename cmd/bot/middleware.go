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
	"github.com/gorilla/mux"
	"github.com/guichet-bot/guichet/cmd/bot/monitoring"
	"github.com/guichet-bot/guichet/pkg/logging"
	"github.com/guichet-bot/guichet/pkg/messages"
	"github.com/guichet-bot/guichet/pkg/request"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// commandController resolves a slash command to its processor. It is where
// per-command guards (admin, staff, ticket channel) live.
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
			// Run after the request has been handled, as the status code is not available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes every InteractionCreate event to its processor.
// Slash commands route on the command name; components and modals route on
// the custom ID, exact match first.
func interactionHandler(
	a IApp,
	slashControllers map[string]commandController,
	componentProcessors map[string]commandProcessor,
	modalProcessors map[string]commandProcessor,
) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		// Last-resort boundary so a handler bug cannot take the session down.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic handling interaction",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if err := respondEphemeral(a, i, messages.ErrUserErrorProcessing); err != nil {
					a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleSlashCommand(a, i, slashControllers)
		case discordgo.InteractionMessageComponent:
			handleComponent(a, i, componentProcessors)
		case discordgo.InteractionModalSubmit:
			handleModal(a, i, modalProcessors)
		}
	}
}

func handleSlashCommand(a IApp, i *discordgo.InteractionCreate, controllers map[string]commandController) {
	name := i.ApplicationCommandData().Name
	a.Log().Debug("Handling slash command", slog.String("command", name))

	now := time.Now().UTC()
	defer func() {
		monitoring.InteractionDuration.WithLabelValues("command", name).Observe(time.Since(now).Seconds())
	}()

	controller, ok := controllers[name]
	if !ok {
		a.Log().Error("No controller found for command", slog.String("command", name))
		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	processor, err := controller(a, i)
	if err != nil {
		a.Log().Error(fmt.Sprintf("Error getting processor for command %s", name),
			slog.String(logging.KeyError, err.Error()))
		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}
	if processor == nil {
		// The controller already responded (guard rejected the user).
		return
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing command %s", name),
			slog.String(logging.KeyError, err.Error()))
		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func handleComponent(a IApp, i *discordgo.InteractionCreate, processors map[string]commandProcessor) {
	customID := i.MessageComponentData().CustomID
	a.Log().Debug("Handling component interaction", slog.String(logging.KeyCustomID, customID))

	now := time.Now().UTC()
	defer func() {
		monitoring.InteractionDuration.WithLabelValues("component", customID).Observe(time.Since(now).Seconds())
	}()

	processor, ok := processors[customID]
	if !ok {
		// Only ticket actions belong to this bot; anything else prefixed as
		// one is stale or malformed.
		if !strings.HasPrefix(customID, messages.TicketActionPrefix) {
			return
		}

		a.Log().Warn("Unknown ticket action", slog.String(logging.KeyCustomID, customID))
		if err := respondEphemeral(a, i, messages.ErrUserUnknownAction); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing component %s", customID),
			slog.String(logging.KeyError, err.Error()))
		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func handleModal(a IApp, i *discordgo.InteractionCreate, processors map[string]commandProcessor) {
	customID := i.ModalSubmitData().CustomID
	a.Log().Debug("Handling modal submit", slog.String(logging.KeyCustomID, customID))

	now := time.Now().UTC()
	defer func() {
		monitoring.InteractionDuration.WithLabelValues("modal", customID).Observe(time.Since(now).Seconds())
	}()

	processor, ok := processors[customID]
	if !ok {
		a.Log().Warn("Unknown modal submit", slog.String(logging.KeyCustomID, customID))
		if err := respondEphemeral(a, i, messages.ErrUserUnknownAction); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing modal %s", customID),
			slog.String(logging.KeyError, err.Error()))
		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}
