// Package plugin defines the contract between the host loop and the
// screens it runs.
package plugin

import (
	"context"

	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/render"
)

// Category groups plugins in the menu.
type Category int

const (
	CategoryMedia Category = iota
	CategoryUtility
	CategorySystem
)

func (c Category) String() string {
	switch c {
	case CategoryUtility:
		return "Utility"
	case CategorySystem:
		return "System"
	default:
		return "Media"
	}
}

// Info describes a plugin.
type Info struct {
	Name        string
	Description string
	Category    Category
	// Hidden plugins are not listed in the menu.
	Hidden bool
}

// Plugin is one full-screen application. The host calls Init once, then
// Update and Draw every frame until WantsClose reports true or the back
// button closes it, then Shutdown.
type Plugin interface {
	Info() Info
	Init(env *Env, width, height int) error
	Update(ctx context.Context, in *input.State, dt float64)
	Draw(c render.Canvas)
	Shutdown()
	WantsClose() bool
	// HandlesBackButton plugins receive back presses instead of being closed.
	HandlesBackButton() bool
}

// Factory creates a fresh plugin instance.
type Factory func() Plugin

// Base implements the optional parts of Plugin. Embed it and call Close
// to ask the host to switch away.
type Base struct {
	closing bool
}

func (b *Base) Shutdown()               {}
func (b *Base) WantsClose() bool        { return b.closing }
func (b *Base) HandlesBackButton() bool { return false }

// Close marks the plugin for closing after this frame.
func (b *Base) Close() { b.closing = true }
