package widget

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

const (
	MessageLoadFailed = "Failed to load sponsors. Please try again later."
	MessageNoSponsors = "No sponsors are currently available."
	MessageEmptyLevel = "No sponsors in this level"
	searchPlaceholder = "Search sponsors..."
)

// State is the widget lifecycle state.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

// Options mirror the display switches of the embeddable component.
type Options struct {
	DisplayLevel       bool
	DisplayWebsite     bool
	DisplayDescription bool
	DisplaySearch      bool
}

// DefaultOptions enables every display switch.
func DefaultOptions() Options {
	return Options{DisplayLevel: true, DisplayWebsite: true, DisplayDescription: true, DisplaySearch: true}
}

// ClickAction is what activating a sponsor card does.
type ClickAction string

const (
	ClickNone    ClickAction = "none"
	ClickModal   ClickAction = "modal"
	ClickWebsite ClickAction = "website"
)

// Card is one rendered sponsor.
type Card struct {
	Sponsor domain.Sponsor
	LogoSrc string
	Action  ClickAction
}

// Group is one level section of the widget.
type Group struct {
	Level domain.SponsorLevel
	Cards []Card
	Empty string
}

// View is everything the widget template needs for one render.
type View struct {
	State             State
	Error             string
	ShowSearch        bool
	SearchPlaceholder string
	Query             string
	Grouped           bool
	Groups            []Group
	Cards             []Card
	Empty             string
	Options           Options
}

// Widget is the public sponsor display controller for one mount.
//
// A Widget is not safe for concurrent use.
type Widget struct {
	api   ports.SponsorReader
	media ports.MediaResolver
	opts  Options
	log   *slog.Logger

	state    State
	err      string
	levels   []domain.SponsorLevel
	sponsors []domain.Sponsor
}

// New returns a widget in the loading state.
func New(api ports.SponsorReader, media ports.MediaResolver, opts Options, log *slog.Logger) *Widget {
	if log == nil {
		log = slog.Default()
	}
	return &Widget{api: api, media: media, opts: opts, log: log, state: StateLoading}
}

// State returns the current lifecycle state.
func (w *Widget) State() State {
	return w.state
}

// Load fetches levels and sponsors in parallel and settles the widget into
// ready or error. It only runs from the loading state.
func (w *Widget) Load(ctx context.Context) error {
	if w.state != StateLoading {
		return nil
	}

	var levels []domain.SponsorLevel
	var sponsors []domain.Sponsor
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		levels, err = w.api.ListLevels(gctx)
		if err != nil {
			return fmt.Errorf("list levels: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sponsors, err = w.api.ListSponsors(gctx)
		if err != nil {
			return fmt.Errorf("list sponsors: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		w.log.ErrorContext(ctx, "Failed to load sponsors", "error", err)
		w.state = StateError
		w.err = MessageLoadFailed
		return err
	}

	w.levels = levels
	w.sponsors = sponsors
	w.state = StateReady
	return nil
}

// View renders the current state for a search query.
func (w *Widget) View(query string) View {
	view := View{
		State:             w.state,
		ShowSearch:        w.opts.DisplaySearch,
		SearchPlaceholder: searchPlaceholder,
		Query:             strings.TrimSpace(query),
		Options:           w.opts,
	}
	switch w.state {
	case StateError:
		view.Error = w.err
		return view
	case StateLoading:
		return view
	}

	matched := domain.FilterSponsors(w.sponsors, view.Query, domain.MatchName)
	if len(matched) == 0 {
		view.Empty = MessageNoSponsors
		return view
	}

	if w.opts.DisplayLevel && len(w.levels) > 0 {
		view.Grouped = true
		for _, group := range domain.GroupByLevel(w.levels, matched) {
			out := Group{Level: group.Level, Cards: w.cards(group.Sponsors)}
			if len(out.Cards) == 0 {
				out.Empty = MessageEmptyLevel
			}
			view.Groups = append(view.Groups, out)
		}
		return view
	}

	view.Cards = w.cards(matched)
	return view
}

// Click decides what activating a sponsor card does.
func (w *Widget) Click(s domain.Sponsor) ClickAction {
	switch {
	case w.opts.DisplayDescription:
		return ClickModal
	case w.opts.DisplayWebsite && strings.TrimSpace(s.WebsiteURL) != "":
		return ClickWebsite
	default:
		return ClickNone
	}
}

// Sponsor returns a loaded sponsor by id.
func (w *Widget) Sponsor(id int64) (Card, bool) {
	for _, sponsor := range w.sponsors {
		if sponsor.ID == id {
			return w.card(sponsor), true
		}
	}
	return Card{}, false
}

func (w *Widget) cards(sponsors []domain.Sponsor) []Card {
	out := make([]Card, 0, len(sponsors))
	for _, sponsor := range sponsors {
		out = append(out, w.card(sponsor))
	}
	return out
}

func (w *Widget) card(s domain.Sponsor) Card {
	var resolve func(string) string
	if w.media != nil {
		resolve = w.media.MediaURL
	}
	return Card{Sponsor: s, LogoSrc: domain.ResolveLogo(s, resolve), Action: w.Click(s)}
}
