package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/scrub"
	"github.com/gekko3d/scrub/dirt"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// view draws a top-down map of the scene with the HUD on the last line.
type view struct {
	screen tcell.Screen
}

func newView(screen tcell.Screen) *view {
	return &view{screen: screen}
}

func rgb(c [4]uint8) tcell.Color {
	return tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2]))
}

var (
	styleText  = tcell.StyleDefault
	styleDim   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWall  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleAlert = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
)

func (v *view) draw(app *scrub.App) {
	v.screen.Clear()
	if s := app.Scene(); s != nil {
		if menu, ok := scrub.Part[*scrub.Menu](s, scrub.PartMenu); ok {
			v.drawMenu(menu)
		} else {
			v.drawGame(s)
		}
	}
	v.screen.Show()
}

// drawLoading shows a progress bar while assets load.
func (v *view) drawLoading(done, total int) {
	w, h := v.screen.Size()
	v.screen.Clear()
	v.text(4, h/2-1, styleText.Bold(true), "loading")
	v.text(4, h/2, styleText, loadingBar(done, total, w-8))
	v.screen.Show()
}

// loadingBar renders done/total as a bracketed bar width cells wide.
func loadingBar(done, total, width int) string {
	inner := max(width-2, 0)
	filled := 0
	if total > 0 {
		filled = min(inner*done/total, inner)
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", inner-filled) + "]"
}

// splatGlyph picks a heavier character for denser decal textures.
func splatGlyph(coverage float32) rune {
	switch {
	case coverage >= 0.3:
		return '@'
	case coverage >= 0.15:
		return '*'
	case coverage > 0:
		return '+'
	}
	return '.'
}

func (v *view) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *view) drawMenu(m *scrub.Menu) {
	_, h := v.screen.Size()
	y := h/2 - 4
	v.text(4, y, styleText.Bold(true), "SCRUB")
	y += 2
	for i, name := range m.Levels {
		style, mark := styleDim, "  "
		if i == m.Selected {
			style, mark = styleText.Reverse(true), "> "
		}
		v.text(4, y+i, style, mark+name)
	}
	y += len(m.Levels) + 1
	v.text(4, y, styleDim, "tab: switch level  enter: start  esc: quit")
	if m.Message != "" {
		v.text(4, y+2, styleAlert, m.Message)
	}
}

// mapper projects world XZ onto screen cells, two columns per row to keep
// the aspect.
type mapper struct {
	min    mgl32.Vec3
	scale  float32
	width  int
	height int
}

func newMapper(bounds mesh.AABB, width, height int) mapper {
	size := bounds.Size()
	scale := min(float32(height-1)/max(size.Z(), 1), float32(width-1)/(2*max(size.X(), 1)))
	return mapper{min: bounds.Min, scale: scale, width: width, height: height}
}

func (m mapper) cell(p mgl32.Vec3) (int, int, bool) {
	x := int(2 * (p.X() - m.min.X()) * m.scale)
	y := int((p.Z() - m.min.Z()) * m.scale)
	return x, y, x >= 0 && y >= 0 && x < m.width && y < m.height
}

func (v *view) drawGame(s *scrub.Scene) {
	lvl, ok := scrub.Part[*scrub.LevelPart](s, scrub.PartLevel)
	if !ok {
		return
	}
	w, h := v.screen.Size()
	m := newMapper(lvl.Mesh.Bounds(), w, h-1)

	for _, b := range lvl.Def.Boxes {
		half := b.Size.Vec3().Mul(0.5)
		box := mesh.AABB{Min: half.Mul(-1), Max: half}.Transformed(b.Matrix())
		ch, style := '#', styleWall
		if box.Max.Y() <= 0.05 {
			ch, style = '.', styleDim
		}
		x0, y0, _ := m.cell(box.Min)
		x1, y1, _ := m.cell(box.Max)
		for y := max(y0, 0); y <= min(y1, m.height-1); y++ {
			for x := max(x0, 0); x <= min(x1, m.width-1); x++ {
				v.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}

	if x, y, ok := m.cell(lvl.Bucket.WorldPosition()); ok {
		v.screen.SetContent(x, y, 'U', nil, styleText.Foreground(rgb(lvl.Bucket.Color)))
	}

	if d, ok := scrub.Part[*scrub.DirtLayer](s, scrub.PartDirt); ok {
		assets := s.App.Assets()
		d.Registry.Each(func(e dirt.Entity) bool {
			var ch rune
			switch e.Kind {
			case dirt.Decal:
				ch = splatGlyph(assets.Texture(e.Decal.Material.TextureName()).Coverage())
			case dirt.Block:
				ch = 'o'
			case dirt.Powerup:
				ch = '$'
			}
			if x, y, ok := m.cell(e.Collider.WorldPosition()); ok {
				v.screen.SetContent(x, y, ch, nil, styleText.Foreground(rgb(e.Color)))
			}
			return true
		})
	}

	if p, ok := scrub.Part[*scrub.ParticleLayer](s, scrub.PartParticles); ok {
		for i := 0; i < p.System.Len(); i++ {
			if x, y, ok := m.cell(p.System.Position(i)); ok {
				v.screen.SetContent(x, y, '\'', nil, styleText.Foreground(tcell.ColorLightBlue))
			}
		}
	}

	c, ok := scrub.Part[*scrub.Controller](s, scrub.PartPlayer)
	if !ok {
		return
	}
	if x, y, ok := m.cell(c.Player.Head()); ok {
		v.screen.SetContent(x, y, '@', nil, styleText.Bold(true))
		f := c.Player.Forward()
		if ax, ay, ok := m.cell(c.Player.Head().Add(f.Mul(1.5 / m.scale))); ok && (ax != x || ay != y) {
			v.screen.SetContent(ax, ay, arrow(f), nil, styleText)
		}
	}
	v.drawHUD(c, h-1)
}

// arrow picks the glyph closest to the heading on the map.
func arrow(f mgl32.Vec3) rune {
	a := math.Atan2(float64(f.Z()), float64(f.X()))
	glyphs := []rune{'>', '\\', 'v', '/', '<', '\\', '^', '/'}
	i := int(math.Round(a/(math.Pi/4))+8) % 8
	return glyphs[i]
}

func (v *view) drawHUD(c *scrub.Controller, y int) {
	hud := c.HUD
	water := strings.Repeat("o", hud.Water.Level()) + strings.Repeat(".", hud.Water.Max()-hud.Water.Level())
	style := styleText
	if hud.Flash > 0 {
		style = styleAlert
	}
	x := 0
	line := fmt.Sprintf("water [%s] %d/%d ", water, hud.Water.Level(), hud.Water.Max())
	v.text(x, y, style, line)
	x += len(line)

	line = fmt.Sprintf(" clean %d/%d (%.0f%%) ", hud.Progress.Level(), hud.Progress.Max(), 100*hud.Progress.Fraction())
	v.text(x, y, styleText, line)
	x += len(line)

	cam := "first-person"
	if c.Player.TopDown {
		cam = "top-down"
	}
	line = fmt.Sprintf(" speed %.0f  %s ", c.Player.Speed, cam)
	v.text(x, y, styleDim, line)
	x += len(line)

	if hud.Message != "" {
		v.text(x, y, styleText.Bold(true), " "+hud.Message)
	}
}
