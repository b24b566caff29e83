package viewport

// MarginConfig holds scroll margin configuration.
type MarginConfig struct {
	Top    int // Lines to keep above cursor
	Bottom int // Lines to keep below cursor
}

// DefaultMargins returns the default margins.
func DefaultMargins() MarginConfig {
	return MarginConfig{Top: 2, Bottom: 2}
}

// NoMargins returns zero margins (cursor can go to edge).
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// maxMarginRatio limits margins to 1/3 of the viewport height.
const maxMarginRatio = 3
