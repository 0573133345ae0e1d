package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/board"
	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/pkg/ficsdto"
)

func (s *Server) getStatus(ctx *fasthttp.RequestCtx) {
	st := ficsdto.Status{
		Transport:     s.transport,
		State:         s.session.State().String(),
		Games:         len(s.session.Games()),
		ActiveSlots:   s.session.ActiveSlots(),
		Conversations: len(s.session.CommunicationIDs()),
		Seeks:         len(s.session.Seeks()),
		VersionOld:    s.session.IsCurrentVersionOld(),
	}
	if w := s.session.WelcomeData(); w != nil {
		st.UnreadMessages = w.UnreadMessages
	}
	writeJSON(ctx, fasthttp.StatusOK, st)
}

func (s *Server) listGames(ctx *fasthttp.RequestCtx) {
	games := s.session.Games()
	out := make([]ficsdto.GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, summarize(g))
	}
	writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) lookup(ctx *fasthttp.RequestCtx, raw string) *session.Game {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "bad_id", "game id must be a uuid")
		return nil
	}
	g := s.session.Game(id)
	if g == nil {
		writeError(ctx, fasthttp.StatusNotFound, "not_found", ErrGameNotFound.Error())
		return nil
	}
	return g
}

func (s *Server) getGame(ctx *fasthttp.RequestCtx, raw string) {
	if g := s.lookup(ctx, raw); g != nil {
		writeJSON(ctx, fasthttp.StatusOK, detail(g))
	}
}

func (s *Server) deleteGame(ctx *fasthttp.RequestCtx, raw string) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "bad_id", "game id must be a uuid")
		return
	}
	if !s.session.RemoveGame(id) {
		writeError(ctx, fasthttp.StatusNotFound, "not_found", ErrGameNotFound.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (s *Server) getBoard(ctx *fasthttp.RequestCtx, raw string) {
	g := s.lookup(ctx, raw)
	if g == nil {
		return
	}
	etag := boardETag(g)
	if etag != "" && string(ctx.Request.Header.Peek(fasthttp.HeaderIfNoneMatch)) == etag {
		ctx.SetStatusCode(fasthttp.StatusNotModified)
		return
	}
	rctx, cancel := s.requestContext()
	defer cancel()

	png, err := s.renderer.RenderGame(rctx, g)
	if errors.Is(err, board.ErrNoPosition) {
		writeError(ctx, fasthttp.StatusNotFound, "no_position", err.Error())
		return
	}
	if err != nil {
		s.logger.Warn("board render failed", zap.String("game", raw), zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	ctx.SetContentType("image/png")
	if etag != "" {
		ctx.Response.Header.Set(fasthttp.HeaderETag, etag)
	}
	ctx.SetBody(png)
}

// boardETag changes whenever the newest snapshot or the outcome does.
func boardETag(g *session.Game) string {
	last := g.Last()
	if last == nil {
		return ""
	}
	key := last.Raw
	if g.Outcome != nil {
		key += "|" + g.Outcome.Result
	}
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64String(key))
}

func (s *Server) getConversation(ctx *fasthttp.RequestCtx, raw string) {
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "bad_id", "invalid conversation id")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, ficsdto.Conversation{ID: id, Messages: communications(s.session.Communications(id))})
}

func (s *Server) listSeeks(ctx *fasthttp.RequestCtx) {
	seeks := s.session.Seeks()
	out := make([]ficsdto.Seek, 0, len(seeks))
	for _, sk := range seeks {
		out = append(out, seek(sk))
	}
	writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) getWelcome(ctx *fasthttp.RequestCtx) {
	w := s.session.WelcomeData()
	if w == nil {
		writeError(ctx, fasthttp.StatusNotFound, "not_found", "no welcome banner seen yet")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, w)
}

func (s *Server) postSend(ctx *fasthttp.RequestCtx) {
	var req ficsdto.SendRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "bad_request", "invalid json body")
		return
	}
	rctx, cancel := s.requestContext()
	defer cancel()

	var err error
	switch {
	case req.Tell != "":
		err = s.session.Tell(rctx, req.Tell, req.Text)
	case req.Command != "":
		err = s.session.Send(rctx, req.Command)
	default:
		writeError(ctx, fasthttp.StatusBadRequest, "bad_request", "command or tell is required")
		return
	}
	if err != nil {
		writeError(ctx, fasthttp.StatusBadGateway, "send_failed", err.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusAccepted)
}

// getArchive serves /archive/games/{id}, /archive/players/{handle},
// /archive/recent and /archive/conversations/{id}.
func (s *Server) getArchive(ctx *fasthttp.RequestCtx, parts []string) {
	if s.archive == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, "archive_disabled", "no archive configured")
		return
	}
	rctx, cancel := s.requestContext()
	defer cancel()

	switch {
	case parts[0] == "recent" && len(parts) == 1:
		n, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("n")))
		if n <= 0 {
			n = 20
		}
		ids, err := s.archive.RecentGames(rctx, n)
		s.writeArchive(ctx, ids, err)
	case parts[0] == "games" && len(parts) == 2:
		id, err := uuid.Parse(parts[1])
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "bad_id", "game id must be a uuid")
			return
		}
		rec, err := s.archive.LoadGame(rctx, id)
		if err == nil && rec == nil {
			writeError(ctx, fasthttp.StatusNotFound, "not_found", ErrGameNotFound.Error())
			return
		}
		s.writeArchive(ctx, rec, err)
	case parts[0] == "players" && len(parts) == 2:
		ids, err := s.archive.GamesByPlayer(rctx, parts[1])
		s.writeArchive(ctx, ids, err)
	case parts[0] == "conversations" && len(parts) == 2:
		tail, err := s.archive.ConversationTail(rctx, parts[1])
		s.writeArchive(ctx, communications(tail), err)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not_found", "unknown archive resource")
	}
}

func (s *Server) writeArchive(ctx *fasthttp.RequestCtx, v any, err error) {
	if err != nil {
		s.logger.Warn("archive read failed", zap.Error(err))
		writeError(ctx, fasthttp.StatusBadGateway, "archive_failed", err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, v)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("encode response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, code, msg string) {
	writeJSON(ctx, status, ficsdto.Error{Code: code, Message: msg})
}
