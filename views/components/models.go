package components

// Toast is one flash notification.
type Toast struct {
	Level   string
	Message string
}

// WidgetCard is a sponsor logo tile in the public widget.
type WidgetCard struct {
	ID          int64
	Name        string
	LogoSrc     string
	Placeholder string
	WebsiteURL  string
	// Action is one of "modal", "website" or "none".
	Action string
}

// WidgetGroup is one level section of the public widget.
type WidgetGroup struct {
	Name  string
	Cards []WidgetCard
	Empty string
}

// WidgetView is the public widget fragment.
type WidgetView struct {
	FragmentURL       string
	ModalURL          string
	Error             string
	Empty             string
	Query             string
	SearchPlaceholder string
	ShowSearch        bool
	Grouped           bool
	Groups            []WidgetGroup
	Cards             []WidgetCard
}

// SponsorModal is the description dialog opened from a widget card.
type SponsorModal struct {
	Name        string
	Description string
	WebsiteURL  string
	LogoSrc     string
	ShowWebsite bool
}

// AdminLevel is one row of the level list.
type AdminLevel struct {
	ID           int64
	Name         string
	SponsorCount int
	CanDelete    bool
	Editing      bool
}

// AdminSponsor is one sponsor card on the admin screen.
type AdminSponsor struct {
	ID          int64
	Name        string
	LogoSrc     string
	WebsiteURL  string
	Description string
}

// AdminGroup is one level bucket on the admin screen.
type AdminGroup struct {
	LevelID   int64
	LevelName string
	Sponsors  []AdminSponsor
}

// AdminSponsorForm is the add/edit sponsor dialog.
type AdminSponsorForm struct {
	Open        bool
	SponsorID   int64
	Name        string
	LogoURL     string
	WebsiteURL  string
	Description string
	LevelID     int64
	LogoMode    string
	LogoPreview string
}

// AdminView is the full admin screen.
type AdminView struct {
	CSRF           string
	Error          string
	Toasts         []Toast
	Query          string
	Levels         []AdminLevel
	Groups         []AdminGroup
	Form           AdminSponsorForm
	ConfirmLevel   string
	ConfirmSponsor string
	MaxLogoLabel   string
}
