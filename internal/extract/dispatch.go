package extract

// genericStrategies are tried in order outside Vue mode.
var genericStrategies = []Strategy{
	scriptStrategy{},
	jsxStrategy{},
	phpStrategy{},
}

var (
	vueStrategies = []Strategy{vueStrategy{}}
	noop          = noopStrategy{}
)

// Select returns the first strategy able to extract n. Vue mode only considers
// the Vue strategy. A strategy that never extracts is returned when nothing matches.
func Select(n Node, vueMode bool) Strategy {
	candidates := genericStrategies
	if vueMode {
		candidates = vueStrategies
	}
	for _, s := range candidates {
		if s.CanExtract(n) {
			return s
		}
	}
	return noop
}

// Result is the outcome of running the selected strategy against a node.
type Result struct {
	Dialect    Dialect
	CanExtract bool
	Text       string
	Range      Range
	Template   Template
}

// Extract selects a strategy for n and computes everything needed to rewrite it.
// When n cannot be extracted only Dialect and CanExtract are set.
func Extract(n Node, vueMode bool) Result {
	s := Select(n, vueMode)
	if !s.CanExtract(n) {
		return Result{Dialect: s.Dialect()}
	}
	return Result{
		Dialect:    s.Dialect(),
		CanExtract: true,
		Text:       s.Text(n),
		Range:      s.TextRange(n),
		Template:   s.Template(n),
	}
}
