package expand

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"schema-expander/internal/diagnostic"
	"schema-expander/internal/document"
	"schema-expander/internal/merge"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

// Expander resolves inheritance over a registry.
// An Expander holds configuration only; every Expand call is an independent
// pass with its own clones and guard state.
type Expander struct {
	logger    *slog.Logger
	merger    *merge.Merger
	tolerance int
	observer  Observer
}

// New creates an Expander.
func New(opts ...Option) *Expander {
	e := &Expander{
		logger:    slog.Default(),
		merger:    merge.New(merge.DefaultAnnotations()),
		tolerance: DefaultCycleTolerance,
		observer:  nopObserver{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Result is the output of one pass.
type Result struct {
	// Expanded holds the fully merged documents.
	Expanded *registry.Registry
	// Diagnostics holds everything reported during the pass.
	Diagnostics diagnostic.Diagnostics
}

// ExpandedField returns the expanded field documents by name.
func (r *Result) ExpandedField() map[string]*document.Document {
	return r.Expanded.Class(pointer.ClassField)
}

// ExpandedModel returns the expanded model documents by name.
func (r *Result) ExpandedModel() map[string]*document.Document {
	return r.Expanded.Class(pointer.ClassModel)
}

// ExpandedForm returns the expanded form documents by name.
func (r *Result) ExpandedForm() map[string]*document.Document {
	return r.Expanded.Class(pointer.ClassForm)
}

// Expand runs one pass over reg. reg is not modified. The result is always
// returned; documents that failed to resolve keep their own content.
func (e *Expander) Expand(reg *registry.Registry) *Result {
	start := time.Now()

	e.observer.PassStarted()

	res := &Result{Expanded: reg.Clone()}

	rep := diagnostic.NewReporter(&res.Diagnostics, e.logger)
	rep.OnReport(e.observer.Reported)

	p := &pass{
		reg:      res.Expanded,
		merger:   e.merger,
		guard:    newGuard(e.tolerance),
		reporter: rep,
		logger:   e.logger,
		observer: e.observer,
		done:     make(map[*document.Document]bool),
	}

	for _, class := range pointer.DocumentClasses {
		for _, name := range res.Expanded.Names(class) {
			p.expandTop(class, res.Expanded.Class(class)[name])
		}
	}

	elapsed := time.Since(start)
	e.observer.PassFinished(elapsed)

	e.logger.Info("Expansion pass finished",
		slog.Int("documents", res.Expanded.Len()),
		slog.Int("errors", len(res.Diagnostics.Errors)),
		slog.Int("warnings", len(res.Diagnostics.Warnings)),
		slog.Duration("elapsed", elapsed))

	return res
}

// pass is the state of one Expand call.
type pass struct {
	reg      *registry.Registry
	merger   *merge.Merger
	guard    *guard
	reporter *diagnostic.Reporter
	logger   *slog.Logger
	observer Observer
	// done holds every document whose inherit step completed.
	done map[*document.Document]bool
}

// site locates a document for diagnostics: the top-level document that owns
// it and the property path inside that document.
type site struct {
	owner string
	prop  string
}

func (s site) child(name string) site {
	if s.prop == "" {
		return site{owner: s.owner, prop: name}
	}

	return site{owner: s.owner, prop: s.prop + "." + name}
}

func (s site) items() site {
	return site{owner: s.owner, prop: s.prop + "[]"}
}

func (p *pass) expandTop(class pointer.Class, doc *document.Document) {
	p.guard.reset()

	defer p.observer.DocumentExpanded(class)

	if p.done[doc] {
		return
	}

	key := string(class) + "/" + doc.ID
	if p.guard.enter(key, doc.Path, false) != entered {
		return
	}

	ok := p.inherit(doc, site{owner: doc.Path})
	p.guard.leave(key, ok)
}

// inherit resolves doc in place: ancestors, then properties, then items,
// then ordering and removal. It reports false when an ancestor chain of doc
// was cut by the cycle guard.
func (p *pass) inherit(doc *document.Document, at site) bool {
	if p.done[doc] {
		return true
	}

	ok := true

	// Keys of merged ancestors stay on the recursion path until doc's own
	// properties are expanded, so a property that extends one of them again
	// counts as nesting.
	var held []string

	if doc.HasExtend() {
		for _, ptr := range slices.Clone(doc.Extend) {
			if p.done[doc] {
				break
			}

			key, res := p.extend(doc, ptr, at)

			switch res {
			case extendMerged:
				held = append(held, key)
			case extendCycle:
				ok = false
			}
		}

		doc.Extend = nil
		doc.Schema = ""
	}

	defer func() {
		for _, key := range slices.Backward(held) {
			p.guard.leave(key, true)
		}
	}()

	if p.done[doc] {
		return ok
	}

	for name, prop := range doc.Properties.All {
		p.inherit(prop, at.child(name))
	}

	if doc.Items != nil {
		p.inherit(doc.Items, at.items())
	}

	if order := merge.Strings(doc.ItemsOrder); len(order) > 0 {
		p.reorder(doc, order, at)
	}

	for _, name := range RemoveKeys(doc) {
		p.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeRemovalWarning,
			Message:  fmt.Sprintf("cannot remove %q: no such property", name),
		}, at)
	}

	doc.FinalOrder = doc.PropertyNames()
	if doc.FinalOrder == nil {
		doc.FinalOrder = []string{}
	}

	p.done[doc] = true

	return ok
}

type extendResult int

const (
	extendMerged extendResult = iota
	extendSkipped
	extendCycle
)

// extend applies one pointer of doc. On extendMerged the returned key is
// held on the guard and must be released by the caller.
func (p *pass) extend(doc *document.Document, ptr string, at site) (string, extendResult) {
	ref, err := pointer.Parse(ptr)
	if err != nil {
		p.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeMalformedPointer,
			Message:  err.Error(),
			Pointer:  ptr,
		}, at)

		return "", extendSkipped
	}

	if p.reg.IsLeafClass(ref.Class) {
		p.extendLeaf(doc, ref, at)
		return "", extendSkipped
	}

	class, anc, found := p.reg.Lookup(ref)
	if !found {
		p.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeMissingAncestor,
			Message:  fmt.Sprintf("ancestor %q not found", ref.Key()),
			Pointer:  ptr,
		}, at)

		return "", extendSkipped
	}

	key := string(class) + "/" + anc.ID

	if anc.HasExtend() {
		switch p.guard.enter(key, anc.Path, true) {
		case cycleDetected:
			p.reportCycle(ptr, anc.Path, at)
			return "", extendCycle
		case alreadyAborted:
			return "", extendCycle
		}

		resolved := p.inherit(anc, site{owner: anc.Path})
		p.guard.leave(key, resolved)

		if !resolved {
			p.logger.Debug("Ancestor chain cut by cycle guard",
				slog.String("document", at.owner),
				slog.String("ancestor", anc.Path),
				slog.String("state", p.guard.stateOf(key).String()))

			return "", extendCycle
		}
	}

	if p.guard.enter(key, anc.Path, false) != entered {
		p.reportCycle(ptr, anc.Path, at)
		return "", extendCycle
	}

	merged := p.merger.Merge(doc, anc)
	*doc = *merged
	doc.Reference = &ref
	anc.ReferenceCounter++

	p.observer.AncestorMerged(class)

	return key, extendMerged
}

// extendLeaf merges leaf content (e.g. a template) as a string attribute
// named after the leaf class. The document's own value wins.
func (p *pass) extendLeaf(doc *document.Document, ref pointer.Ref, at site) {
	content, ok := p.reg.Leaf(ref)
	if !ok {
		p.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodeMissingAncestor,
			Message:  fmt.Sprintf("%s %q not found", ref.Class, ref.ID),
			Pointer:  ref.Path,
		}, at)

		return
	}

	if !doc.Attrs.Has(string(ref.Class)) {
		doc.SetAttr(string(ref.Class), content)
	}

	r := ref
	doc.Reference = &r
}

func (p *pass) reorder(doc *document.Document, order []string, at site) {
	var missing []string

	if doc.Properties == nil {
		missing = order
	} else {
		doc.Properties, missing = Reorder(doc.Properties, order)
	}

	for _, name := range missing {
		p.report(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeOrderingWarning,
			Message:  fmt.Sprintf("itemsOrder names %q but there is no such property", name),
		}, at)
	}
}

func (p *pass) reportCycle(ptr, ancestor string, at site) {
	p.report(diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     diagnostic.CodeCircularReference,
		Message:  fmt.Sprintf("circular reference to %s, extension abandoned", ancestor),
		Pointer:  ptr,
		Stack:    append(p.guard.trace(), ancestor),
	}, at)
}

func (p *pass) report(d diagnostic.Diagnostic, at site) {
	d.Document = at.owner
	d.Property = at.prop
	p.reporter.Report(d)
}
