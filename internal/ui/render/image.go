package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
)

const maxScaledImages = 64

type scaledKey struct {
	url  string
	w, h int
}

type scaledImage struct {
	src image.Image
	img *image.NRGBA
}

// scaled returns img fitted into w x h pixels, cached per URL and box.
func (r *Renderer) scaled(url string, img image.Image, w, h int) *image.NRGBA {
	key := scaledKey{url: url, w: w, h: h}
	if cached, ok := r.scaledCache[key]; ok && cached.src == img {
		return cached.img
	}
	if len(r.scaledCache) >= maxScaledImages {
		clear(r.scaledCache)
	}
	fitted := imaging.Fit(img, w, h, imaging.Box)
	r.scaledCache[key] = scaledImage{src: img, img: fitted}
	return fitted
}

// drawImage paints img into the cell box (x, y, w, h) using upper half
// blocks, two pixels per cell. y is a content row. alpha dims the picture
// toward bg during carousel fades.
func (r *Renderer) drawImage(vp viewport, url string, img image.Image, x, y, w, h int, alpha float64, bg tcell.Color) {
	if w <= 0 || h <= 0 || img == nil {
		return
	}
	pic := r.scaled(url, img, w, h*2)
	b := pic.Bounds()
	offX := (w - b.Dx()) / 2
	offY := (h*2 - b.Dy()) / 2

	bgR, bgG, bgB := bg.RGB()
	if bgR < 0 {
		bgR, bgG, bgB = 0, 0, 0
	}
	base := rgb{uint8(bgR), uint8(bgG), uint8(bgB)}

	pixel := func(px, py int) (rgb, bool) {
		px -= offX
		py -= offY
		if px < 0 || py < 0 || px >= b.Dx() || py >= b.Dy() {
			return base, false
		}
		c := pic.NRGBAAt(b.Min.X+px, b.Min.Y+py)
		return blend(c, base, alpha), true
	}

	for cy := 0; cy < h; cy++ {
		sy, ok := vp.row(y + cy)
		if !ok {
			continue
		}
		for cx := 0; cx < w; cx++ {
			top, okTop := pixel(cx, cy*2)
			bottom, okBottom := pixel(cx, cy*2+1)
			if !okTop && !okBottom {
				continue
			}
			style := tcell.StyleDefault.Foreground(top.color()).Background(bottom.color())
			r.screen.SetContent(x+cx, sy, '▀', nil, style)
		}
	}
}

type rgb struct{ r, g, b uint8 }

func (c rgb) color() tcell.Color {
	return tcell.NewRGBColor(int32(c.r), int32(c.g), int32(c.b))
}

// blend composes c over base, then fades the result toward base by alpha.
func blend(c color.NRGBA, base rgb, alpha float64) rgb {
	a := float64(c.A) / 255 * alpha
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*a + float64(bg)*(1-a) + 0.5)
	}
	return rgb{mix(c.R, base.r), mix(c.G, base.g), mix(c.B, base.b)}
}

// drawItemImage draws the carousel picture of an item, or a placeholder
// while it loads.
func (r *Renderer) drawItemImage(state *statepkg.AppState, vp viewport, images []string, view *statepkg.ItemView, x, y, w, h int, theme CategoryTheme) {
	placeholder := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Accent)
	mid := y + h/2
	if len(images) == 0 {
		r.centered(vp, x, mid, w, "нет фото", placeholder)
		return
	}

	idx, alpha := view.DisplayedImage(r.now(), state.FadeDuration)
	if idx < 0 || idx >= len(images) {
		idx = 0
	}
	url := images[idx]
	entry := state.Images[url]
	switch {
	case entry == nil || entry.Loading:
		r.centered(vp, x, mid, w, "загрузка фото…", placeholder)
	case entry.Err != nil || entry.Image == nil:
		r.centered(vp, x, mid, w, "фото недоступно", placeholder)
	default:
		r.drawImage(vp, url, entry.Image, x, y, w, h, alpha, theme.Background)
	}
}
