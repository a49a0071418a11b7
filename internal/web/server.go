// Package web serves the browser UI: a due-count badge, deck pickers,
// and the flip-and-rate practice flow, rendered server-side and swapped
// with HTMX.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/conorfennell/spacedeck/internal/deck"
	"github.com/conorfennell/spacedeck/internal/domain"
	"github.com/conorfennell/spacedeck/internal/review"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server. It fronts a single
// user's session, matching the engine's single-session model.
type Server struct {
	session   *review.Session
	provider  *deck.FileProvider
	router    *http.ServeMux
	templates *template.Template
}

// NewServer creates and configures a new server.
func NewServer(session *review.Session, provider *deck.FileProvider) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		session:   session,
		provider:  provider,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded tree is fixed at build time
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("GET /deck", s.handleDeck)
	s.router.HandleFunc("POST /session/study", s.handleStartStudy)
	s.router.HandleFunc("POST /session/due", s.handleStartDueReview)
	s.router.HandleFunc("POST /session/reveal", s.handleReveal)
	s.router.HandleFunc("POST /session/rate", s.handleRate)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
	}
}

type cardView struct {
	Card     domain.Card
	Pos      int
	Total    int
	DueCount int
	Looped   bool
}

func (s *Server) currentCardView(looped bool) cardView {
	card, _ := s.session.Current()
	pos, total := s.session.Progress()
	return cardView{
		Card:     card,
		Pos:      pos + 1,
		Total:    total,
		DueCount: s.session.DueCount(),
		Looped:   looped,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", nil)
}

// handleDeck renders the landing partial: the due badge and the deck
// pickers.
func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	topics, err := s.provider.Topics()
	if err != nil {
		slog.Error("listing topics failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.render(w, "deck", map[string]any{
		"DueCount": s.session.Resolver().CountDue(r.Context(), s.session.User()),
		"Topics":   topics,
	})
}

func (s *Server) handleStartStudy(w http.ResponseWriter, r *http.Request) {
	topic := r.PostFormValue("topic")
	if topic == "" {
		http.Error(w, "Topic cannot be empty", http.StatusBadRequest)
		return
	}

	cards, err := s.provider.GenerateFlashcards(r.Context(), topic)
	if err != nil {
		slog.Error("building study deck failed", "topic", topic, "error", err)
		http.Error(w, "Failed to build the study deck", http.StatusInternalServerError)
		return
	}
	if err := s.session.LoadStudyDeck(r.Context(), cards); err != nil {
		http.Error(w, "Failed to start the session", http.StatusInternalServerError)
		return
	}

	s.render(w, "card_front", s.currentCardView(false))
}

func (s *Server) handleStartDueReview(w http.ResponseWriter, r *http.Request) {
	err := s.session.LoadDueDeck(r.Context(), 0)
	if errors.Is(err, review.ErrNothingDue) {
		s.render(w, "session_end", map[string]any{"NothingDue": true})
		return
	}
	if err != nil {
		// The caller must see the difference between "nothing due" and
		// "could not find out", so this is an error, not an empty deck.
		slog.Error("loading due deck failed", "error", err)
		http.Error(w, "Could not load the due cards", http.StatusBadGateway)
		return
	}

	s.render(w, "card_front", s.currentCardView(false))
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session.Current(); !ok {
		http.Error(w, "No session in progress", http.StatusConflict)
		return
	}
	s.session.Reveal()
	s.render(w, "card_back", s.currentCardView(false))
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		http.Error(w, "Invalid rating", http.StatusBadRequest)
		return
	}

	out, err := s.session.Rate(r.Context(), sm2.Rating(rating))
	switch {
	case errors.Is(err, sm2.ErrInvalidRating):
		http.Error(w, "Rating must be between 1 and 4", http.StatusBadRequest)
		return
	case errors.Is(err, review.ErrNoActiveDeck), errors.Is(err, review.ErrFaceDown):
		http.Error(w, "No revealed card to rate", http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if out.Ended {
		s.render(w, "session_end", map[string]any{"DueCount": 0})
		return
	}
	s.render(w, "card_front", s.currentCardView(out.Looped))
}
