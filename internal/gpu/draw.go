package gpu

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

const (
	minimapSize   = 150
	minimapMargin = 10
)

var (
	colorSpace     = color.RGBA{5, 5, 20, 255}
	colorPlayer    = color.RGBA{0, 220, 255, 255}
	colorShield    = color.RGBA{55, 95, 120, 120}
	colorClone     = color.RGBA{0, 125, 160, 200}
	colorBullet    = color.RGBA{255, 255, 120, 255}
	colorLaser     = color.RGBA{255, 60, 255, 255}
	colorEnemyShot = color.RGBA{255, 80, 60, 255}
	colorEnemy     = color.RGBA{220, 40, 40, 255}
	colorEnemyBig  = color.RGBA{150, 20, 60, 255}
	colorSatellite = color.RGBA{80, 255, 120, 255}
	colorBlast     = color.RGBA{255, 140, 0, 255}
	colorMinimap   = color.RGBA{0, 0, 0, 160}
	colorFrame     = color.RGBA{200, 200, 200, 200}
	colorView      = color.RGBA{90, 90, 90, 90}
)

var powerupColors = map[string]color.RGBA{
	"Laser":      {255, 60, 255, 255},
	"Shield":     {80, 160, 255, 255},
	"Bomb":       {255, 140, 0, 255},
	"MultiClone": {0, 255, 200, 255},
}

// unpack turns a packed 0xRRGGBB colour into opaque RGBA
func unpack(c uint32) color.RGBA {
	return color.RGBA{uint8(c >> 16), uint8(c >> 8), uint8(c), 255}
}

// fade scales alpha, premultiplied as ebiten expects
func fade(c color.RGBA, f float64) color.RGBA {
	f = math.Max(0, math.Min(f, 1))
	return color.RGBA{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f), uint8(float64(c.A) * f)}
}

// asteroidColor darkens as the asteroid loses health
func asteroidColor(hp float64) color.RGBA {
	v := uint8(90 + 100*math.Max(0, math.Min(hp, 1)))
	return color.RGBA{v, v, v, 255}
}

// minimapRect is the minimap's top-left corner for a screen size
func minimapRect(screenW, screenH int) (float32, float32) {
	return float32(screenW - minimapSize - minimapMargin), float32(screenH - minimapSize - minimapMargin)
}

// minimapPoint maps a world point into the minimap
func minimapPoint(x, y, worldW, worldH float64, left, top float32) (float32, float32) {
	return left + float32(x/worldW*minimapSize), top + float32(y/worldH*minimapSize)
}

// ship draws a hull circle with a nose line along heading
func ship(dst *ebiten.Image, x, y, r, heading float32, c color.RGBA) {
	vector.DrawFilledCircle(dst, x, y, r*0.7, c, true)
	nx := x + r*float32(math.Cos(float64(heading)))
	ny := y + r*float32(math.Sin(float64(heading)))
	vector.StrokeLine(dst, x, y, nx, ny, 4, c, true)
}

func drawState(dst *ebiten.Image, st game.State) {
	dst.Fill(colorSpace)
	sx, sy := st.ScrollX, st.ScrollY
	at := func(x, y float64) (float32, float32) { return float32(x - sx), float32(y - sy) }

	for _, p := range st.Particles {
		x, y := at(p.X, p.Y)
		vector.DrawFilledCircle(dst, x, y, float32(p.Radius), fade(unpack(p.C), p.Life), false)
	}
	for _, c := range st.Collectibles {
		if !c.Visible {
			continue
		}
		x, y := at(c.X, c.Y)
		vector.StrokeCircle(dst, x, y, float32(c.Radius), 3, colorSatellite, true)
		vector.DrawFilledCircle(dst, x, y, float32(c.Radius)/3, colorSatellite, true)
	}
	for _, p := range st.Powerups {
		x, y := at(p.X, p.Y)
		c := powerupColors[p.Kind]
		if p.Fading > 0 {
			c = fade(c, 0.3+0.7*p.Fading)
		}
		r := float32(p.Radius * (1 + 0.15*math.Sin(p.Pulse)))
		vector.DrawFilledCircle(dst, x, y, r, c, true)
		if p.Kind != "" {
			ebitenutil.DebugPrintAt(dst, p.Kind[:1], int(x)-3, int(y)-8)
		}
	}
	for _, a := range st.Asteroids {
		x, y := at(a.X, a.Y)
		vector.DrawFilledCircle(dst, x, y, float32(a.Radius), asteroidColor(a.HP), true)
	}
	for _, e := range st.Enemies {
		x, y := at(e.X, e.Y)
		c := colorEnemy
		if e.Large {
			c = colorEnemyBig
		}
		ship(dst, x, y, float32(e.Radius), float32(e.R), c)
		vector.DrawFilledRect(dst, x-float32(e.Radius), y-float32(e.Radius)-8, float32(2*e.Radius*e.HP), 3, colorEnemy, false)
	}
	for _, b := range st.Bullets {
		x, y := at(b.X, b.Y)
		c := colorBullet
		switch {
		case b.Enemy:
			c = colorEnemyShot
		case b.Laser:
			c = colorLaser
		}
		vector.DrawFilledCircle(dst, x, y, float32(b.Radius), c, true)
	}
	for _, cl := range st.Clones {
		x, y := at(cl.X, cl.Y)
		ship(dst, x, y, float32(cl.Radius), float32(cl.R), colorClone)
	}
	if p := st.Player; p.Alive {
		x, y := at(p.X, p.Y)
		ship(dst, x, y, float32(p.Radius), float32(p.R), colorPlayer)
		if p.Invulnerable {
			vector.DrawFilledCircle(dst, x, y, float32(p.Radius)+8, colorShield, true)
		}
	}
	for _, b := range st.Blasts {
		x, y := at(b.X, b.Y)
		vector.StrokeCircle(dst, x, y, float32(b.Radius*b.Progress), 6, fade(colorBlast, 1-b.Progress), true)
	}

	drawHUD(dst, st.HUD)
	drawMinimap(dst, st)
}

func hudText(h game.HUD) string {
	s := fmt.Sprintf("SCORE %d\nTIME  %ds\nHP    %d%%\nLEVEL %d", h.Score, h.Seconds, h.Health, h.Level)
	if h.Powerup != "" {
		s += fmt.Sprintf("\n%s %ds", h.Powerup, h.PowerupS)
	}
	return s
}

func drawHUD(dst *ebiten.Image, h game.HUD) {
	ebitenutil.DebugPrintAt(dst, hudText(h), 10, 10)
	if h.GameOver {
		w, ht := dst.Bounds().Dx(), dst.Bounds().Dy()
		msg := fmt.Sprintf("GAME OVER\nscore %d\npress R to restart", h.Score)
		ebitenutil.DebugPrintAt(dst, msg, w/2-50, ht/2-20)
	}
}

func drawMinimap(dst *ebiten.Image, st game.State) {
	if st.WorldW <= 0 || st.WorldH <= 0 {
		return
	}
	b := dst.Bounds()
	left, top := minimapRect(b.Dx(), b.Dy())
	vector.DrawFilledRect(dst, left, top, minimapSize, minimapSize, colorMinimap, false)
	vector.StrokeRect(dst, left, top, minimapSize, minimapSize, 1, colorFrame, false)

	dot := func(x, y float64, r float32, c color.RGBA) {
		mx, my := minimapPoint(x, y, st.WorldW, st.WorldH, left, top)
		vector.DrawFilledCircle(dst, mx, my, r, c, false)
	}
	for _, a := range st.Asteroids {
		dot(a.X, a.Y, 1.5, asteroidColor(a.HP))
	}
	for _, e := range st.Enemies {
		dot(e.X, e.Y, 2, colorEnemy)
	}
	for _, c := range st.Collectibles {
		dot(c.X, c.Y, 2, colorSatellite)
	}
	for _, p := range st.Powerups {
		dot(p.X, p.Y, 2, powerupColors[p.Kind])
	}
	if st.Player.Alive {
		dot(st.Player.X, st.Player.Y, 3, colorPlayer)
	}

	vx, vy := minimapPoint(st.ScrollX, st.ScrollY, st.WorldW, st.WorldH, left, top)
	vw := float32(float64(b.Dx()) / st.WorldW * minimapSize)
	vh := float32(float64(b.Dy()) / st.WorldH * minimapSize)
	vector.StrokeRect(dst, vx, vy, vw, vh, 1, colorView, false)
}
