package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/middleware"
)

func (a *App) loadRoutes() error {
	presets, err := a.config.Presets()
	if err != nil {
		return err
	}

	game := handlers.NewGameHandler(
		a.log, a.store, presets, a.jwt, a.cookies, a.config.Upgrader(),
	)

	root := a.router
	if a.config.BasePath != "" {
		root = a.router.PathPrefix(a.config.BasePath).Subrouter()
	}

	root.Methods(http.MethodGet).Path("/status").HandlerFunc(handlers.Status)
	root.Methods(http.MethodGet).Path("/difficulties").HandlerFunc(game.Difficulties)
	root.Methods(http.MethodPost).Path("/game").HandlerFunc(game.NewGame)
	root.Methods(http.MethodGet).Path("/game/{id}").HandlerFunc(game.Fetch)

	owned := root.NewRoute().Subrouter()
	owned.Use(mux.MiddlewareFunc(middleware.Auth(a.log, a.jwt, a.cookies)))
	owned.Methods(http.MethodPost).Path("/game/{id}/reveal").HandlerFunc(game.Move(command.Open))
	owned.Methods(http.MethodPost).Path("/game/{id}/flag").HandlerFunc(game.Move(command.Flag))
	owned.Methods(http.MethodPost).Path("/game/{id}/chord").HandlerFunc(game.Move(command.Chord))
	owned.Methods(http.MethodDelete).Path("/game/{id}").HandlerFunc(game.Delete)
	owned.Methods(http.MethodGet).Path("/game/{id}/connect").HandlerFunc(game.Connect)

	return nil
}
