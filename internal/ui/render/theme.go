package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeaderBg      tcell.Color
	HeaderFg      tcell.Color
	MenuActiveBg  tcell.Color
	MenuActiveFg  tcell.Color
	MenuCurrentFg tcell.Color
	MutedFg       tcell.Color
	PriceFg       tcell.Color
	SelectionBg   tcell.Color
	SelectionFg   tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	ErrorFg       tcell.Color
	DialogBg      tcell.Color
	DialogFg      tcell.Color
	DialogBorder  tcell.Color
	FlashBg       tcell.Color
	FlashFg       tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		HeaderBg:      tcell.ColorDefault,
		HeaderFg:      tcell.ColorDefault,
		MenuActiveBg:  tcell.Color137, // warm brown, the storefront's accent
		MenuActiveFg:  tcell.ColorWhite,
		MenuCurrentFg: tcell.Color137,
		MutedFg:       tcell.ColorLightSlateGray,
		PriceFg:       tcell.Color179,
		SelectionBg:   tcell.Color137,
		SelectionFg:   tcell.ColorWhite,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
		ErrorFg:       tcell.Color167,
		DialogBg:      tcell.Color236,
		DialogFg:      tcell.Color252,
		DialogBorder:  tcell.Color137,
		FlashBg:       tcell.ColorGreen,
		FlashFg:       tcell.ColorBlack,
	}
}

// CategoryTheme colors the section of one category.
type CategoryTheme struct {
	Background tcell.Color
	Accent     tcell.Color
}

var categoryThemes = map[string]CategoryTheme{
	"doll":      {Background: tcell.Color224, Accent: tcell.Color131},
	"weaving":   {Background: tcell.Color187, Accent: tcell.Color94},
	"painting":  {Background: tcell.Color153, Accent: tcell.Color25},
	"scrap":     {Background: tcell.Color223, Accent: tcell.Color130},
	"decoupage": {Background: tcell.Color194, Accent: tcell.Color28},
	"gifts":     {Background: tcell.Color225, Accent: tcell.Color125},
}

// ThemeFor returns the theme of category slug, falling back to a neutral one.
func ThemeFor(slug string) CategoryTheme {
	if t, ok := categoryThemes[slug]; ok {
		return t
	}
	return CategoryTheme{Background: tcell.Color254, Accent: tcell.Color137}
}
