package routes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/sponsorboard/internal/admin"
	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	appservices "github.com/fr0stylo/sponsorboard/internal/app/services"
	"github.com/fr0stylo/sponsorboard/internal/widget"
	"github.com/fr0stylo/sponsorboard/views/components"
)

const (
	detailLevelNotFound   = "Level not found"
	detailSponsorNotFound = "Sponsor not found"
	detailLevelInUse      = "Cannot delete levels with sponsors"
)

// errorBody is the JSON error envelope of the plugin API.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, appservices.ErrLevelNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Detail: detailLevelNotFound})
	case errors.Is(err, appservices.ErrSponsorNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Detail: detailSponsorNotFound})
	case errors.Is(err, appservices.ErrLevelInUse):
		return c.JSON(http.StatusConflict, errorBody{Detail: detailLevelInUse})
	case errors.Is(err, appservices.ErrInvalidInput):
		return c.JSON(http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
	default:
		slog.ErrorContext(c.Request().Context(), "Sponsor API request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Detail: "Internal server error"})
	}
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// collectingNotifier buffers notifications raised during one request.
type collectingNotifier struct {
	notes []flashMessage
}

func (n *collectingNotifier) Notify(_ context.Context, note ports.Notification) {
	n.notes = append(n.notes, flashMessage{Level: string(note.Level), Message: note.Message})
}

func mapToasts(notes []flashMessage) []components.Toast {
	out := make([]components.Toast, 0, len(notes))
	for _, note := range notes {
		out = append(out, components.Toast{Level: note.Level, Message: note.Message})
	}
	return out
}

func mapAdminLevels(m *admin.Manager, editing int64) []components.AdminLevel {
	out := make([]components.AdminLevel, 0, len(m.Levels))
	for _, level := range m.Levels {
		out = append(out, components.AdminLevel{
			ID:           level.ID,
			Name:         level.Name,
			SponsorCount: m.SponsorCount(level.ID),
			CanDelete:    m.CanDeleteLevel(level.ID),
			Editing:      level.ID == editing,
		})
	}
	return out
}

func mapAdminGroups(m *admin.Manager, query string) []components.AdminGroup {
	groups := m.Groups(query)
	out := make([]components.AdminGroup, 0, len(groups))
	for _, group := range groups {
		sponsors := make([]components.AdminSponsor, 0, len(group.Sponsors))
		for _, sponsor := range group.Sponsors {
			sponsors = append(sponsors, components.AdminSponsor{
				ID:          sponsor.ID,
				Name:        sponsor.Name,
				LogoSrc:     m.LogoSrc(sponsor),
				WebsiteURL:  sponsor.WebsiteURL,
				Description: sponsor.Description,
			})
		}
		out = append(out, components.AdminGroup{LevelID: group.Level.ID, LevelName: group.Level.Name, Sponsors: sponsors})
	}
	return out
}

func mapSponsorForm(form admin.SponsorForm, sponsorID int64) components.AdminSponsorForm {
	return components.AdminSponsorForm{
		Open:        true,
		SponsorID:   sponsorID,
		Name:        form.Name,
		LogoURL:     form.LogoURL,
		WebsiteURL:  form.WebsiteURL,
		Description: form.Description,
		LevelID:     form.LevelID,
		LogoMode:    string(form.LogoMode),
		LogoPreview: form.LogoPreview,
	}
}

func mapWidgetView(view widget.View, fragmentURL, modalURL string) components.WidgetView {
	out := components.WidgetView{
		FragmentURL:       fragmentURL,
		ModalURL:          modalURL,
		Error:             view.Error,
		Empty:             view.Empty,
		Query:             view.Query,
		SearchPlaceholder: view.SearchPlaceholder,
		ShowSearch:        view.ShowSearch,
		Grouped:           view.Grouped,
		Cards:             mapWidgetCards(view.Cards),
	}
	for _, group := range view.Groups {
		out.Groups = append(out.Groups, components.WidgetGroup{
			Name:  group.Level.Name,
			Cards: mapWidgetCards(group.Cards),
			Empty: group.Empty,
		})
	}
	return out
}

func mapWidgetCards(cards []widget.Card) []components.WidgetCard {
	out := make([]components.WidgetCard, 0, len(cards))
	for _, card := range cards {
		out = append(out, components.WidgetCard{
			ID:          card.Sponsor.ID,
			Name:        card.Sponsor.Name,
			LogoSrc:     card.LogoSrc,
			Placeholder: domain.PlaceholderDataURI(card.Sponsor.Name),
			WebsiteURL:  card.Sponsor.WebsiteURL,
			Action:      string(card.Action),
		})
	}
	return out
}
