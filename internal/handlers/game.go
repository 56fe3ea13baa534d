package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

// Frames carry a few command lines.
const maxFrameSize = 4096

type GameHandler struct {
	log      *logrus.Logger
	store    *session.Store
	presets  mines.Presets
	jwt      *config.JWT
	cookies  *config.Cookies
	upgrader *websocket.Upgrader
}

func NewGameHandler(
	log *logrus.Logger,
	store *session.Store,
	presets mines.Presets,
	jwt *config.JWT,
	cookies *config.Cookies,
	upgrader *websocket.Upgrader,
) *GameHandler {
	handler := &GameHandler{
		log:      log,
		store:    store,
		presets:  presets,
		jwt:      jwt,
		cookies:  cookies,
		upgrader: upgrader,
	}

	return handler
}

func (h *GameHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, h.log, http.StatusOK, h.presets)
}

func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	d, err := dto.Resolve(h.presets)
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	sess, err := h.store.Create(d)
	if errors.Is(err, session.ErrFull) {
		sendErrorOrLog(w, h.log, http.StatusServiceUnavailable, err)
		return
	}
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	token, err := h.jwt.NewGameToken(sess.Id)
	if err != nil {
		h.store.Delete(sess.Id)
		h.log.WithError(err).Error("unable to sign game token")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	h.cookies.Refresh(w, sess.Id, token)

	sendJSONOrLog(w, h.log, http.StatusCreated, CreatedGameSessionDTO{
		GameSessionDTO: NewGameSessionDTO(sess.Snapshot()),
		Token:          token,
	})
}

func (h *GameHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.store.Get(mux.Vars(r)["id"])
	if errors.Is(err, session.ErrNotFound) {
		sendErrorOrLog(w, h.log, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		h.log.WithError(err).Error("unable to fetch game session")
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (h *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.log, http.StatusOK, NewGameSessionDTO(sess.Snapshot()))
}

// Move returns a handler applying verb at the ?row=&col= position.
func (h *GameHandler) Move(verb command.Verb) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := ParsePositionDTO(r.URL.Query())
		if err != nil {
			sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
			return
		}

		sess, ok := h.session(w, r)
		if !ok {
			return
		}

		cmd := command.Command{Verb: verb, Row: pos.Row, Col: pos.Col}
		snapshot, err := sess.Do(cmd.Apply)
		if err != nil {
			sendErrorOrLog(w, h.log, http.StatusNotFound, err)
			return
		}

		fields := logrus.Fields{
			"id":      sess.Id,
			"command": cmd.String(),
			"state":   snapshot.State.String(),
		}
		if claims, ok := middleware.GameClaims(r.Context()); ok && claims.ExpiresAt != nil {
			fields["token_expires_at"] = claims.ExpiresAt.Time
		}
		h.log.WithFields(fields).Debug("move applied")

		sendJSONOrLog(w, h.log, http.StatusOK, NewGameSessionDTO(snapshot))
	}
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Delete(id); err != nil {
		sendErrorOrLog(w, h.log, http.StatusNotFound, err)
		return
	}
	h.cookies.Clear(w, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("unable to upgrade connection")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	err = h.runGameLoop(r.Context(), conn, sess)
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		h.log.WithError(err).WithField("id", sess.Id).Error("game loop failed")
	}
}

// parseFrame reads every command line in a frame. A frame with any bad
// line is rejected as a whole.
func parseFrame(message string) ([]command.Command, error) {
	var cmds []command.Command
	for _, line := range command.Lines(message, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cmd, err := command.Parse(line)
		if err != nil {
			return nil, err
		}
		if !cmd.Move() {
			return nil, fmt.Errorf("%w: %q is not a move", command.ErrUnknown, line)
		}
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil, command.ErrEmpty
	}
	return cmds, nil
}

func (h *GameHandler) runGameLoop(
	ctx context.Context, conn *websocket.Conn, sess *session.Session,
) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			continue
		}

		cmds, err := parseFrame(string(buf))
		if err != nil {
			if err := conn.WriteJSON(wrapError(err)); err != nil {
				return err
			}
			continue
		}

		snapshot, err := sess.Do(func(g *mines.Game) {
			for _, cmd := range cmds {
				if g.IsGameOver() {
					break
				}
				cmd.Apply(g)
			}
		})
		if err != nil {
			return closeGone(conn, err)
		}

		if err := conn.WriteJSON(NewGameSessionDTO(snapshot)); err != nil {
			return err
		}
	}
}

// closeGone tells the client its session no longer exists and closes the
// connection.
func closeGone(conn *websocket.Conn, err error) error {
	if err := conn.WriteJSON(wrapError(err)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, err.Error()))
}
