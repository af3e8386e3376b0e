package router

import (
	"time"

	"github.com/m3rciful/foodbot/core/logger"
	tg "github.com/m3rciful/foodbot/core/telegram"
	"github.com/m3rciful/foodbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes prepares command handlers wrapped with shared middleware.
// Permission checks happen inside the handlers themselves, so every
// registered command is exposed as a route.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name := normalizeHandlerName(cmd)
		inner := def.Handler
		h := func(c tele.Context) error {
			return handleWithSummary(c, name, time.Now(), "", "", func() error {
				return inner(c)
			})
		}
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
