// Package webhook receives Trello board actions and turns relevant ones into
// reconciliation triggers.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"helpbot/internal/application/trigger"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

const maxPayloadBytes = 1 << 20

// Triggerer requests a reconciliation run without blocking
type Triggerer interface {
	Trigger(source trigger.Source) bool
}

// CardGetter fetches a card to check its labels
type CardGetter interface {
	GetCard(ctx context.Context, cardID string) (domain.RemoteCard, error)
}

// Options configures a Server
type Options struct {
	Addr       string
	ReadyColor string
	Logger     ports.Logger
}

// Server serves the /ping callback Trello posts board actions to
type Server struct {
	router     chi.Router
	triggerer  Triggerer
	cards      CardGetter
	addr       string
	readyColor string
	logger     ports.Logger
}

// NewServer creates a Server with its routes configured
func NewServer(triggerer Triggerer, cards CardGetter, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":5000"
	}
	if opts.ReadyColor == "" {
		opts.ReadyColor = domain.DefaultReadyColor
	}
	s := &Server{
		triggerer:  triggerer,
		cards:      cards,
		addr:       opts.Addr,
		readyColor: opts.ReadyColor,
		logger:     opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Trello verifies the callback with HEAD before registering it
	r.Get("/ping", s.handleVerify)
	r.Head("/ping", s.handleVerify)
	r.Post("/ping", s.handleAction)

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logf("component=webhook action=listen addr=%s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Kind classifies a board action
type Kind string

const (
	KindCardLabelChanged Kind = "cardLabelChanged"
	KindCardUpdated      Kind = "cardUpdated"
	KindListRenamed      Kind = "listRenamed"
	KindOther            Kind = "other"
)

// Action is the part of a Trello webhook payload the bot reads
type Action struct {
	Type string     `json:"type"`
	Data ActionData `json:"data"`
}

// ActionData carries the models an action touched
type ActionData struct {
	Card  *ModelRef      `json:"card,omitempty"`
	List  *ModelRef      `json:"list,omitempty"`
	Old   map[string]any `json:"old,omitempty"`
	Value string         `json:"value,omitempty"`
}

// ModelRef identifies a board model inside an action
type ModelRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type payload struct {
	Action *Action `json:"action"`
}

// Classify maps an action to the kind of knowledge base change it signals
func Classify(a Action, readyColor string) Kind {
	switch a.Type {
	case "addLabelToCard", "removeLabelFromCard":
		if a.Data.Value == readyColor {
			return KindCardLabelChanged
		}
	case "updateCard":
		if a.Data.Card != nil && a.Data.Card.ID != "" {
			return KindCardUpdated
		}
	case "updateList":
		if _, ok := a.Data.Old["name"]; ok {
			return KindListRenamed
		}
	}
	return KindOther
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		s.logf("component=webhook action=reject error=%q", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "malformed payload"})
		return
	}
	if p.Action == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}

	kind := Classify(*p.Action, s.readyColor)
	switch kind {
	case KindCardLabelChanged, KindListRenamed:
		s.trigger(p.Action.Type, kind)
	case KindCardUpdated:
		card, err := s.cards.GetCard(r.Context(), p.Action.Data.Card.ID)
		if err != nil {
			s.logf("component=webhook action=get_card card=%s error=%q", p.Action.Data.Card.ID, err)
			break
		}
		if card.HasLabelColor(s.readyColor) {
			s.trigger(p.Action.Type, kind)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "type": p.Action.Type})
}

func (s *Server) trigger(actionType string, kind Kind) {
	fresh := s.triggerer.Trigger(trigger.SourceWebhook)
	s.logf("component=webhook action=trigger type=%s kind=%s coalesced=%t", actionType, kind, !fresh)
}

func (s *Server) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
