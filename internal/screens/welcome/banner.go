package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursefit/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗ ██╗   ██╗██████╗ ███████╗███████╗███████╗██╗████████╗
 ██╔════╝██╔═══██╗██║   ██║██╔══██╗██╔════╝██╔════╝██╔════╝██║╚══██╔══╝
 ██║     ██║   ██║██║   ██║██████╔╝███████╗█████╗  █████╗  ██║   ██║
 ██║     ██║   ██║██║   ██║██╔══██╗╚════██║██╔══╝  ██╔══╝  ██║   ██║
 ╚██████╗╚██████╔╝╚██████╔╝██║  ██║███████║███████╗██║     ██║   ██║
  ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝     ╚═╝   ╚═╝`

const bannerCompact = "C O U R S E F I T"

// RenderBanner returns the product banner, or a one-line version for
// terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < lipgloss.Width(bannerArt)+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
