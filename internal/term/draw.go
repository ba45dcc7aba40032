package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// hudRows is the number of rows above the playfield
const hudRows = 1

var (
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleOver      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePlayer    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleShielded  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Reverse(true)
	styleClone     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleBullet    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleLaser     = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleEnemyShot = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSatellite = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	stylePowerup   = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleBlast     = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
	styleEnemy     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// arrows indexes a heading in eighths of a turn, clockwise from east
var arrows = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// canvas is the subset of tcell.Screen the renderer needs
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// grid maps screen-space world units to terminal cells
type grid struct {
	cellW, cellH float64
}

// cell returns the terminal cell for a screen-space point
func (g grid) cell(p geom.Vec) (int, int) {
	return int(math.Floor(p.X / g.cellW)), int(math.Floor(p.Y/g.cellH)) + hudRows
}

// point returns the screen-space centre of a terminal cell
func (g grid) point(x, y int) geom.Vec {
	return geom.V((float64(x)+0.5)*g.cellW, (float64(y-hudRows)+0.5)*g.cellH)
}

// viewport returns the playfield size in world units for a terminal size
func (g grid) viewport(cols, rows int) (float64, float64) {
	return float64(cols) * g.cellW, float64(max(rows-hudRows, 1)) * g.cellH
}

func heading(r float64) rune {
	i := int(math.Round(geom.NormalizeAngle(r)/(math.Pi/4))) % len(arrows)
	if i < 0 {
		i += len(arrows)
	}
	return arrows[i]
}

func shade(c uint32, f float64) tcell.Color {
	f = geom.Clamp(f, 0.25, 1)
	r := float64(c>>16&0xff) * f
	g := float64(c>>8&0xff) * f
	b := float64(c&0xff) * f
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

type painter struct {
	c      canvas
	g      grid
	scroll geom.Vec
	cols   int
	rows   int
}

func (p *painter) put(x, y int, ch rune, st tcell.Style) {
	if x < 0 || y < hudRows || x >= p.cols || y >= p.rows {
		return
	}
	p.c.SetContent(x, y, ch, nil, st)
}

// disc fills every cell whose centre lies within r of a world point. A
// body smaller than a cell still takes the cell under its centre.
func (p *painter) disc(x, y, r float64, ch rune, st tcell.Style) {
	centre := geom.V(x, y).Sub(p.scroll)
	x0, y0 := p.g.cell(centre.Sub(geom.V(r, r)))
	x1, y1 := p.g.cell(centre.Add(geom.V(r, r)))
	filled := false
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if p.g.point(cx, cy).Dist(centre) <= r {
				p.put(cx, cy, ch, st)
				filled = true
			}
		}
	}
	if !filled {
		cx, cy := p.g.cell(centre)
		p.put(cx, cy, ch, st)
	}
}

// ring outlines a circle, used for bomb blasts
func (p *painter) ring(x, y, r float64, ch rune, st tcell.Style) {
	centre := geom.V(x, y).Sub(p.scroll)
	steps := int(2*math.Pi*r/math.Min(p.g.cellW, p.g.cellH)) + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		cx, cy := p.g.cell(centre.Add(geom.FromAngle(a).Scale(r)))
		p.put(cx, cy, ch, st)
	}
}

func (p *painter) text(x, y int, s string, st tcell.Style) {
	for _, ch := range s {
		if x >= p.cols {
			return
		}
		if x >= 0 {
			p.c.SetContent(x, y, ch, nil, st)
		}
		x++
	}
}

// hudLine formats the status row
func hudLine(h game.HUD) string {
	s := fmt.Sprintf(" SCORE %d  TIME %ds  HP %d%%  LVL %d", h.Score, h.Seconds, h.Health, h.Level)
	if h.Powerup != "" {
		s += fmt.Sprintf("  %s %ds", h.Powerup, h.PowerupS)
	}
	return s
}

// render draws one snapshot. Later layers overwrite earlier ones.
func render(c canvas, g grid, st game.State) {
	cols, rows := c.Size()
	p := &painter{c: c, g: g, scroll: geom.V(st.ScrollX, st.ScrollY), cols: cols, rows: rows}

	for _, pa := range st.Particles {
		p.disc(pa.X, pa.Y, pa.Radius, '.', tcell.StyleDefault.Foreground(shade(pa.C, pa.Life)))
	}
	for _, b := range st.Blasts {
		p.ring(b.X, b.Y, b.Radius*b.Progress, '~', styleBlast)
	}
	for _, cs := range st.Collectibles {
		if cs.Visible {
			p.disc(cs.X, cs.Y, cs.Radius, '$', styleSatellite)
		}
	}
	for _, pu := range st.Powerups {
		ch := '?'
		if pu.Kind != "" {
			ch = rune(pu.Kind[0])
		}
		style := stylePowerup
		if pu.Fading > 0 {
			style = style.Dim(true)
		}
		p.disc(pu.X, pu.Y, pu.Radius, ch, style)
	}
	for _, a := range st.Asteroids {
		ch := 'o'
		if a.Large {
			ch = 'O'
		}
		p.disc(a.X, a.Y, a.Radius, ch, tcell.StyleDefault.Foreground(shade(0xb4b4b4, 0.4+0.6*a.HP)))
	}
	for _, e := range st.Enemies {
		ch := 'v'
		if e.Large {
			ch = 'W'
		}
		p.disc(e.X, e.Y, e.Radius, ch, styleEnemy)
	}
	for _, b := range st.Bullets {
		switch {
		case b.Enemy:
			p.disc(b.X, b.Y, 0, '*', styleEnemyShot)
		case b.Laser:
			p.disc(b.X, b.Y, 0, '+', styleLaser)
		default:
			p.disc(b.X, b.Y, 0, '·', styleBullet)
		}
	}
	for _, cl := range st.Clones {
		p.disc(cl.X, cl.Y, 0, heading(cl.R), styleClone)
	}
	if pl := st.Player; pl.Alive {
		style := stylePlayer
		if pl.Invulnerable {
			style = styleShielded
		}
		p.disc(pl.X, pl.Y, 0, heading(pl.R), style)
	}

	for x := 0; x < cols; x++ {
		c.SetContent(x, 0, ' ', nil, styleHUD)
	}
	p.text(0, 0, hudLine(st.HUD), styleHUD)
	if st.HUD.GameOver {
		msg := fmt.Sprintf("GAME OVER  score %d   r: restart  q: quit", st.HUD.Score)
		p.text((cols-len([]rune(msg)))/2, rows/2, msg, styleOver)
	}
}
