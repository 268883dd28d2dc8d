package anim

// Presets used by the page sections.
var (
	// RevealOpacity fades a card in over the first 30% of its pass through the
	// viewport and out over the last 30%.
	RevealOpacity = MustTransform([]float64{0, 0.3, 0.7, 1}, []float64{0, 1, 1, 0})
	// RevealY slides a card up by 100px while it enters and leaves.
	RevealY = MustTransform([]float64{0, 0.3, 0.7, 1}, []float64{100, 0, 0, -100})
	// RevealScale grows a card from 0.8 to 1 and shrinks it back.
	RevealScale = MustTransform([]float64{0, 0.3, 0.7, 1}, []float64{0.8, 1, 1, 0.8})

	// SectionOpacity / SectionScale drive whole sections (specs grid, video).
	SectionOpacity = MustTransform([]float64{0, 0.2, 0.8, 1}, []float64{0, 1, 1, 0})
	SectionScale   = MustTransform([]float64{0, 0.2, 0.8, 1}, []float64{0.8, 1, 1, 0.8})
	PulseScale     = MustTransform([]float64{0, 0.5, 1}, []float64{0.8, 1, 0.8})

	// NavBackground maps absolute scrollY (px) to the navbar background alpha.
	NavBackground = MustTransform([]float64{0, 100}, []float64{0, 0.95})
)

// NavBorderThreshold is the scrollY after which the navbar shows its border.
const NavBorderThreshold = 50
