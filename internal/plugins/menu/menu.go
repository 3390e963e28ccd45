// Package menu is the launcher: it lists the registered plugins and asks
// the host to open the chosen one.
package menu

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/errmsg"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/render"
	"github.com/llehouerou/mediadash/internal/ui"
	"github.com/llehouerou/mediadash/internal/ui/cursor"
	"github.com/llehouerou/mediadash/internal/ui/list"
	"github.com/llehouerou/mediadash/internal/ui/styles"
)

// Name is the registry name the host falls back to.
const Name = "Menu"

const (
	gridColumns = 3
	tileGap     = 16.0
	clockEvery  = time.Second
)

// Menu lists plugins in one of three layouts.
type Menu struct {
	plugin.Base
	env   *plugin.Env
	log   *zap.Logger
	theme styles.Canvas

	list  list.Model[plugin.Info]
	style config.MenuStyle
	view  ui.Rect

	clock     string
	clockTick media.Every
}

// New creates the menu plugin.
func New() plugin.Plugin {
	return &Menu{}
}

func (m *Menu) Info() plugin.Info {
	return plugin.Info{
		Name:        Name,
		Description: "Choose a screen",
		Category:    plugin.CategorySystem,
		Hidden:      true,
	}
}

func (m *Menu) Init(env *plugin.Env, w, h int) error {
	m.env = env
	m.log = env.Logger("menu")
	m.theme = styles.T().Canvas()
	m.clockTick = media.Every{Interval: clockEvery}

	_, m.view = ui.Rect{X: ui.Margin, W: float64(w) - 2*ui.Margin, H: float64(h)}.SplitTop(ui.HeaderHeight)
	m.list = list.New[plugin.Info](ui.RowHeight)
	m.list.SetBounds(m.view)
	m.list.SetWrap(true)

	var infos []plugin.Info
	if env.Registry != nil {
		infos = env.Registry.Infos()
	}
	m.list.SetItems(infos)

	if env.Config != nil {
		m.style = env.Config.Global().MenuStyle
	}
	return nil
}

// Style returns the current layout.
func (m *Menu) Style() config.MenuStyle { return m.style }

// Selected returns the highlighted plugin name.
func (m *Menu) Selected() string {
	info, _ := m.list.Selected()
	return info.Name
}

func (m *Menu) Update(ctx context.Context, in *input.State, _ float64) {
	if m.clockTick.Due(m.env.Now()) && m.env.Media != nil {
		if wc, ok := m.env.Media.PhoneTime(ctx); ok {
			m.clock = fmt.Sprintf("%02d:%02d", wc.Hour, wc.Minute)
		}
	}

	if in.Button(keymap.ButtonStyleCycle).Pressed {
		m.cycleStyle()
	}

	if m.style != config.MenuList {
		m.updateTiles(in)
		return
	}
	res := m.list.Update(in)
	switch res.Action {
	case list.ActionEnter, list.ActionClick:
		m.open(res.Index)
	case list.ActionHold:
		m.pinStartup(res.Index)
	}
}

// updateTiles handles the grid and card layouts, which share the list's
// selection but hit-test their own geometry.
func (m *Menu) updateTiles(in *input.State) {
	n := m.list.Len()
	if n == 0 {
		return
	}
	step := 0
	if m.style == config.MenuCards {
		switch {
		case in.SwipeLeft:
			step = 1
		case in.SwipeRight:
			step = -1
		}
	}
	if step == 0 {
		step = cursor.Steps(in)
	}
	if step != 0 {
		m.list.Select(((m.list.SelectedIndex()+step)%n + n) % n)
	}

	switch {
	case in.SelectPressed:
		m.open(m.list.SelectedIndex())
	case in.SelectHold:
		m.pinStartup(m.list.SelectedIndex())
	case in.Tap:
		if idx, ok := m.tileAt(in.TapPos); ok {
			m.list.Select(idx)
			m.open(idx)
		}
	}
}

func (m *Menu) cycleStyle() {
	m.style = m.style.Next()
	if m.env.Config == nil {
		return
	}
	if err := m.env.Config.SetMenuStyle(m.style); err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpConfigSave, err))
	}
}

func (m *Menu) open(index int) {
	items := m.list.Items()
	if index < 0 || index >= len(items) {
		return
	}
	m.log.Debug("open plugin", zap.String("plugin", items[index].Name))
	m.env.Navigate(items[index].Name)
	m.Close()
}

// pinStartup makes the plugin open at boot.
func (m *Menu) pinStartup(index int) {
	items := m.list.Items()
	if index < 0 || index >= len(items) || m.env.Config == nil {
		return
	}
	name := items[index].Name
	if err := m.env.Config.SetStartupPlugin(name); err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpConfigSave, err))
		return
	}
	if m.env.Bus != nil {
		m.env.Bus.Notify("Startup screen", name)
	}
}

func (m *Menu) Draw(c render.Canvas) {
	w, _ := c.Size()
	c.Text("Menu", ui.Margin, ui.HeaderHeight/2, ui.TitleSize, m.theme.Text, render.AlignLeft)
	if m.clock != "" {
		c.Text(m.clock, float64(w)-ui.Margin, ui.HeaderHeight/2, ui.BodySize, m.theme.Muted, render.AlignRight)
	}

	if m.list.Len() == 0 {
		c.Text("No plugins installed", float64(w)/2, m.view.Y+m.view.H/2, ui.BodySize, m.theme.Muted, render.AlignCenter)
		return
	}

	switch m.style {
	case config.MenuGrid:
		m.drawGrid(c)
	case config.MenuCards:
		m.drawCards(c)
	default:
		m.list.Draw(c, render.WithAlpha(m.theme.Cursor, 0.85), m.drawRow)
	}
}

func (m *Menu) drawRow(c render.Canvas, info plugin.Info, _ int, r ui.Rect, selected bool) {
	col := m.theme.Muted
	if selected {
		col = m.theme.Text
	}
	c.Text(info.Name, r.X+20, r.Y+r.H*0.38, ui.BodySize, col, render.AlignLeft)
	desc := render.Truncate(c, info.Description, ui.CaptionSize, r.W-200)
	c.Text(desc, r.X+20, r.Y+r.H*0.72, ui.CaptionSize, m.theme.Subtle, render.AlignLeft)
	c.Text(info.Category.String(), r.X+r.W-20, r.Y+r.H/2, ui.CaptionSize, m.theme.Subtle, render.AlignRight)
}

func (m *Menu) tileRect(i int) ui.Rect {
	tw := (m.view.W - tileGap*(gridColumns-1)) / gridColumns
	th := tw * 0.6
	row, col := i/gridColumns, i%gridColumns
	// Rows scroll so the selected one is visible.
	first := max(m.list.SelectedIndex()/gridColumns-1, 0)
	return ui.Rect{
		X: m.view.X + float64(col)*(tw+tileGap),
		Y: m.view.Y + float64(row-first)*(th+tileGap),
		W: tw,
		H: th,
	}
}

func (m *Menu) tileAt(p input.Point) (int, bool) {
	if m.style == config.MenuCards {
		if m.cardRect().Contains(p) {
			return m.list.SelectedIndex(), true
		}
		return 0, false
	}
	for i := range m.list.Len() {
		if r := m.tileRect(i); r.Y >= m.view.Y && r.Contains(p) {
			return i, true
		}
	}
	return 0, false
}

func (m *Menu) drawGrid(c render.Canvas) {
	sel := m.list.SelectedIndex()
	for i, info := range m.list.Items() {
		r := m.tileRect(i)
		if r.Y < m.view.Y || r.Y+r.H > m.view.Y+m.view.H {
			continue
		}
		bg := render.WithAlpha(m.theme.Panel, 0.8)
		if i == sel {
			bg = render.WithAlpha(m.theme.Cursor, 0.95)
		}
		c.FillRoundedRect(r.X, r.Y, r.W, r.H, ui.Corner, bg)
		if i == sel {
			c.StrokeRect(r.X, r.Y, r.W, r.H, 2, m.theme.Primary)
		}
		name := render.Truncate(c, info.Name, ui.BodySize, r.W-24)
		c.Text(name, r.X+r.W/2, r.Y+r.H/2, ui.BodySize, m.theme.Text, render.AlignCenter)
	}
}

func (m *Menu) cardRect() ui.Rect {
	w, h := m.view.W*0.6, m.view.H*0.7
	return ui.Rect{X: m.view.X + (m.view.W-w)/2, Y: m.view.Y + (m.view.H-h)/2 - ui.Margin/2, W: w, H: h}
}

func (m *Menu) drawCards(c render.Canvas) {
	items := m.list.Items()
	sel := m.list.SelectedIndex()
	r := m.cardRect()
	n := len(items)

	// Neighbours peek in from both sides.
	for _, d := range []int{-1, 1} {
		if n < 2 {
			break
		}
		info := items[((sel+d)%n+n)%n]
		x := r.X + float64(d)*(r.W+tileGap)
		c.FillRoundedRect(x, r.Y+r.H*0.1, r.W, r.H*0.8, ui.Corner, render.WithAlpha(m.theme.Panel, 0.5))
		c.Text(info.Name, x+r.W/2, r.Y+r.H/2, ui.BodySize, render.WithAlpha(m.theme.Muted, 0.6), render.AlignCenter)
	}

	info := items[sel]
	c.FillRoundedRect(r.X, r.Y, r.W, r.H, ui.Corner, render.WithAlpha(m.theme.Cursor, 0.95))
	c.Text(info.Name, r.X+r.W/2, r.Y+r.H*0.4, ui.TitleSize, m.theme.Text, render.AlignCenter)
	for i, line := range render.Wrap(c, info.Description, ui.CaptionSize, r.W-40, 2) {
		c.Text(line, r.X+r.W/2, r.Y+r.H*0.6+float64(i)*ui.CaptionSize*1.3, ui.CaptionSize, m.theme.Muted, render.AlignCenter)
	}
	c.Text(fmt.Sprintf("%d / %d", sel+1, n), r.X+r.W/2, r.Y+r.H+ui.Margin, ui.CaptionSize, m.theme.Subtle, render.AlignCenter)
}
