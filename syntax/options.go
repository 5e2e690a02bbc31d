package syntax

// Options configures a parse. The zero value and a nil *Options both mean
// defaults. Options do not change the grammar, only measurement and
// resource limits.
type Options struct {
	// TabWidth is the indentation width of a tab character at the start of
	// a line: a tab advances the column to the next multiple of TabWidth
	// (the CPython rule). Default 8.
	TabWidth int

	// MaxParseDepth bounds expression/statement nesting depth. Exceeding
	// it is a syntax error rather than a stack overflow. Default 1000.
	MaxParseDepth int
}

const (
	defaultTabWidth      = 8
	defaultMaxParseDepth = 1000
)

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.TabWidth <= 0 {
		out.TabWidth = defaultTabWidth
	}
	if out.MaxParseDepth <= 0 {
		out.MaxParseDepth = defaultMaxParseDepth
	}
	return out
}
