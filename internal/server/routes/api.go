package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	appservices "github.com/fr0stylo/sponsorboard/internal/app/services"
	"github.com/fr0stylo/sponsorboard/internal/sponsorclient"
	"github.com/fr0stylo/sponsorboard/internal/widget"
)

type levelRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type sponsorCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	LogoURL     string `json:"logo_url" validate:"max=255"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,http_url,max=255"`
	Description string `json:"description" validate:"max=1000"`
	LevelID     int64  `json:"level_id" validate:"required,gt=0"`
	LogoUpload  bool   `json:"logo_upload"`
}

type sponsorUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,max=255"`
	WebsiteURL  *string `json:"website_url" validate:"omitempty,website,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	LevelID     *int64  `json:"level_id" validate:"omitempty,gt=0"`
	LogoUpload  bool    `json:"logo_upload"`
}

// APIRoutes serves the sponsors plugin REST API.
type APIRoutes struct {
	catalog *appservices.CatalogService
	auth    *Auth
	display widget.Options
}

// NewAPIRoutes constructs API routes.
func NewAPIRoutes(catalog *appservices.CatalogService, auth *Auth, display widget.Options) *APIRoutes {
	return &APIRoutes{catalog: catalog, auth: auth, display: display}
}

// RegisterRoutes registers API endpoints.
func (a *APIRoutes) RegisterRoutes(s *echo.Echo) {
	api := s.Group(sponsorclient.BasePath + "/sponsors")

	api.GET("/component/", a.handleComponent)
	api.GET("/", a.handleListSponsors)
	api.POST("/", a.handleCreateSponsor, a.auth.RequireAPIToken)
	api.PUT("/:id", a.handleUpdateSponsor, a.auth.RequireAPIToken)
	api.DELETE("/:id", a.handleDeleteSponsor, a.auth.RequireAPIToken)

	api.GET("/levels/", a.handleListLevels)
	api.GET("/levels/:id", a.handleGetLevel)
	api.POST("/levels/", a.handleCreateLevel, a.auth.RequireAPIToken)
	api.PUT("/levels/:id", a.handleUpdateLevel, a.auth.RequireAPIToken)
	api.DELETE("/levels/:id", a.handleDeleteLevel, a.auth.RequireAPIToken)
}

func (a *APIRoutes) handleComponent(c echo.Context) error {
	data, err := a.catalog.Component(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	data.DisplaySponsorLevel = a.display.DisplayLevel
	data.DisplaySponsorWebsite = a.display.DisplayWebsite
	data.DisplaySponsorDescription = a.display.DisplayDescription
	return c.JSON(http.StatusOK, data)
}

func (a *APIRoutes) handleListSponsors(c echo.Context) error {
	sponsors, err := a.catalog.ListSponsors(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	if sponsors == nil {
		sponsors = []domain.Sponsor{}
	}
	return c.JSON(http.StatusOK, sponsors)
}

func (a *APIRoutes) handleCreateSponsor(c echo.Context) error {
	var req sponsorCreateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sponsor, err := a.catalog.CreateSponsor(c.Request().Context(), domain.SponsorInput{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		WebsiteURL:  req.WebsiteURL,
		Description: req.Description,
		LevelID:     req.LevelID,
		LogoUpload:  req.LogoUpload,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sponsor)
}

func (a *APIRoutes) handleUpdateSponsor(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody{Detail: detailSponsorNotFound})
	}
	var req sponsorUpdateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sponsor, err := a.catalog.UpdateSponsor(c.Request().Context(), id, domain.SponsorPatch{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		WebsiteURL:  req.WebsiteURL,
		Description: req.Description,
		LevelID:     req.LevelID,
		LogoUpload:  req.LogoUpload,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sponsor)
}

func (a *APIRoutes) handleDeleteSponsor(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody{Detail: detailSponsorNotFound})
	}
	sponsor, err := a.catalog.RemoveSponsor(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sponsor)
}

func (a *APIRoutes) handleListLevels(c echo.Context) error {
	levels, err := a.catalog.ListLevels(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	if levels == nil {
		levels = []domain.SponsorLevel{}
	}
	return c.JSON(http.StatusOK, levels)
}

func (a *APIRoutes) handleGetLevel(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody{Detail: detailLevelNotFound})
	}
	level, err := a.catalog.GetLevel(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, level)
}

func (a *APIRoutes) handleCreateLevel(c echo.Context) error {
	var req levelRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	level, err := a.catalog.CreateLevel(c.Request().Context(), req.Name)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, level)
}

func (a *APIRoutes) handleUpdateLevel(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody{Detail: detailLevelNotFound})
	}
	var req levelRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	level, err := a.catalog.UpdateLevel(c.Request().Context(), id, req.Name)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, level)
}

func (a *APIRoutes) handleDeleteLevel(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody{Detail: detailLevelNotFound})
	}
	level, err := a.catalog.RemoveLevel(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, level)
}

// bindAndValidate decodes the body. When it reports false the 422 response
// has already been written.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, errorBody{Detail: "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
	}
	return true, nil
}
