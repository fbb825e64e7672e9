package ports

// AssetStore resolves raw image assets. The second return reports
// whether a readable asset exists; the core never writes originals.
type AssetStore interface {
	CardImage(cardID int) (string, bool)
	SpreadImage(spreadID string) (string, bool)
}

// Compositor turns a raw card asset into a presentation-ready image.
// The second return is false when no image could be produced; callers
// degrade to text-only presentation.
type Compositor interface {
	Compose(src string) (string, bool)
}
