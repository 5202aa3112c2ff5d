package helpers

import (
	"createmvp/internal/catalog"
	"createmvp/internal/chat"
	"createmvp/internal/config"
	"createmvp/internal/install"
	"createmvp/internal/logging"
)

// NavigateToMainMenuMsg is a common message for all submodels to navigate back to main menu
type NavigateToMainMenuMsg struct{}

// UIContext carries environment information needed for creating UI models
type UIContext struct {
	Width  int
	Height int
	Config *config.Config
	Logger *logging.AppLogger

	Store     *catalog.Store
	Session   *chat.Session
	Client    chat.Client
	Installer *install.Installer

	// ProjectDir is where rules are installed; empty means the working directory.
	ProjectDir string
}

// NewUIContext creates a new UI context with the provided parameters
func NewUIContext(width, height int, config *config.Config, logger *logging.AppLogger) UIContext {
	return UIContext{
		Width:  width,
		Height: height,
		Config: config,
		Logger: logger,
	}
}

// HasValidDimensions checks if the context has valid window dimensions
func (ctx UIContext) HasValidDimensions() bool {
	return ctx.Width > 0 && ctx.Height > 0
}

// PageSizes returns the configured pager sizes, or zero values that make the
// pager fall back to its defaults.
func (ctx UIContext) PageSizes() (size, increment int) {
	if ctx.Config == nil {
		return 0, 0
	}
	return ctx.Config.PageSize, ctx.Config.PageIncrement
}
