package comparison

import (
	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/insts"
	"gitlab.com/akita/simcmp/metrics"
	"gitlab.com/akita/simcmp/timing/stage"
	"gitlab.com/akita/simcmp/trace"
	"gitlab.com/akita/simcmp/utils"
)

// Builder creates Comparators.
type Builder struct {
	layout     Layout
	startLabel string
	endLabel   string

	decoder    insts.Decoder
	classifier *stage.Classifier
	selection  stage.Selection
	format     trace.CandidateFormat
	options    metrics.Options
	printed    []string

	initial  bool
	trailing bool
	annotate bool
	summary  bool
	verbose  bool

	console *utils.Console
}

// MakeBuilder returns a builder with the default settings.
func MakeBuilder() Builder {
	return Builder{
		layout:     DefaultLayout(),
		startLabel: disasm.DefaultStartLabel,
		endLabel:   disasm.DefaultEndLabel,
		selection:  stage.DefaultSelection(),
		format:     trace.DefaultCandidateFormat(),
		options:    metrics.DefaultOptions(),
		printed:    stage.Printed,
		annotate:   true,
		summary:    true,
	}
}

// WithLayout sets the path templates.
func (b Builder) WithLayout(l Layout) Builder {
	b.layout = l
	return b
}

// WithAnchorLabels sets the labels delimiting the compared region.
func (b Builder) WithAnchorLabels(start, end string) Builder {
	b.startLabel = start
	b.endLabel = end
	return b
}

// WithDecoder sets the decoder for the reference encodings.
func (b Builder) WithDecoder(d insts.Decoder) Builder {
	b.decoder = d
	return b
}

// WithClassifier sets the classifier choosing the commit stage.
func (b Builder) WithClassifier(c *stage.Classifier) Builder {
	b.classifier = c
	return b
}

// WithSelection sets the commit stage per class.
func (b Builder) WithSelection(s stage.Selection) Builder {
	b.selection = s
	return b
}

// WithCandidateFormat sets the layout of the candidate log.
func (b Builder) WithCandidateFormat(f trace.CandidateFormat) Builder {
	b.format = f
	return b
}

// WithOptions sets the metric options.
func (b Builder) WithOptions(o metrics.Options) Builder {
	b.options = o
	return b
}

// WithPrintedStages sets the stage columns of the match report.
func (b Builder) WithPrintedStages(stages []string) Builder {
	b.printed = stages
	return b
}

// WithInitial adds the instructions before the window to the report.
func (b Builder) WithInitial(enabled bool) Builder {
	b.initial = enabled
	return b
}

// WithTrailing adds the instructions after the window to the report.
func (b Builder) WithTrailing(enabled bool) Builder {
	b.trailing = enabled
	return b
}

// WithAnnotation enables the annotated *_t trace copies.
func (b Builder) WithAnnotation(enabled bool) Builder {
	b.annotate = enabled
	return b
}

// WithSummary enables the JSON summary next to the match report.
func (b Builder) WithSummary(enabled bool) Builder {
	b.summary = enabled
	return b
}

// WithVerbose logs where the anchors matched.
func (b Builder) WithVerbose(verbose bool) Builder {
	b.verbose = verbose
	return b
}

// WithConsole sets where progress lines are printed.
func (b Builder) WithConsole(c *utils.Console) Builder {
	b.console = c
	return b
}

// Build creates the comparator.
func (b Builder) Build() *Comparator {
	c := &Comparator{
		layout:     b.layout,
		startLabel: b.startLabel,
		endLabel:   b.endLabel,
		decoder:    b.decoder,
		classifier: b.classifier,
		selection:  b.selection,
		format:     b.format,
		options:    b.options,
		printed:    b.printed,
		initial:    b.initial,
		trailing:   b.trailing,
		annotate:   b.annotate,
		summary:    b.summary,
		verbose:    b.verbose,
		console:    b.console,
	}

	if c.decoder == nil {
		c.decoder = insts.NewRVDecoder()
	}
	if c.classifier == nil {
		c.classifier = stage.Default()
	}
	if c.console == nil {
		c.console = utils.Std()
	}

	return c
}
