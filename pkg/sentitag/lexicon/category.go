package lexicon

// Category is a sentiment label. Integrations key behaviour off these
// identifiers (for example showing an image when Happy is present), so
// the default values are part of the public contract.
type Category string

// Default category identifiers, in default lexicon order.
const (
	Sad         Category = "sad"
	Happy       Category = "happy"
	Teasing     Category = "teasing"
	Angry       Category = "angry"
	Flustered   Category = "flustered"
	Nervous     Category = "nervous"
	Corny       Category = "corny"
	Bittersweet Category = "bittersweet"
	Laugh       Category = "laugh"
	Nuanced     Category = "nuanced"
	Exhausted   Category = "exhausted"
	Jealous     Category = "jealous"
	Grateful    Category = "grateful"
	Focused     Category = "focused"
	Arousal     Category = "arousal"
)

// NeutralLabel is how a no-match result prints. It is reserved and can
// never be used as a category name.
const NeutralLabel = "neutral"

// String returns the identifier.
func (c Category) String() string { return string(c) }
