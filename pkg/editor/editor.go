package editor

import (
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/aretw0/nls/internal/logging"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/ontology"
)

// Editor builds patches. It is safe for concurrent use.
type Editor struct {
	ontology *ontology.Snapshot
	logger   *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for ambiguity warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Editor. A nil snapshot disables template resolution.
func New(snap *ontology.Snapshot, opts ...Option) *Editor {
	e := &Editor{
		ontology: snap,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of Build.
type Result struct {
	Patch domain.Patch
	// Warnings lists ambiguous template references that were resolved by first match.
	Warnings []string
}

// Build converts intent into a patch against s.
func (e *Editor) Build(intent domain.Intent, s domain.Scenario) (Result, error) {
	b := &builder{editor: e, scenario: s}

	var err error
	switch intent.Type {
	case domain.IntentAdd:
		err = b.add(intent)
	case domain.IntentReplace:
		err = b.replace(intent)
	case domain.IntentRemove:
		err = b.remove(intent)
	case domain.IntentSet:
		err = b.set(intent)
	case domain.IntentConnect:
		err = b.connect(intent)
	case domain.IntentDisconnect:
		err = b.disconnect(intent)
	case domain.IntentDuplicate:
		err = b.duplicate(intent)
	case domain.IntentRun:
		err = domain.ErrRunNotPatchable
	case domain.IntentUnknown:
		err = &domain.UnrecognizedError{Raw: intent.StringArg(domain.ArgRaw)}
	default:
		err = &domain.UnrecognizedError{Raw: string(intent.Type)}
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Patch: b.patch, Warnings: b.warnings}, nil
}

// builder accumulates the operations of a single Build call.
type builder struct {
	editor   *Editor
	scenario domain.Scenario
	patch    domain.Patch
	warnings []string
}

func (b *builder) emit(ops ...domain.Operation) {
	b.patch = append(b.patch, ops...)
}

// locate resolves a token to a unit index: exact id first, then the first unit
// whose template matches the resolved token case-insensitively.
func (b *builder) locate(token string) (int, error) {
	token = strings.TrimSpace(token)
	if i := b.scenario.UnitIndex(token); i >= 0 {
		return i, nil
	}

	template := b.editor.ontology.ResolveUnit(token)
	var matches []int
	for i, u := range b.scenario.Units {
		if strings.EqualFold(u.Template, template) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return -1, &NotFoundError{Token: token}
	}
	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for j, i := range matches {
			ids[j] = b.scenario.Units[i].ID
		}
		chosen := ids[0]
		b.editor.logger.Warn("ambiguous unit reference",
			"token", token, "template", template, "candidates", ids, "chosen", chosen)
		b.warnings = append(b.warnings, fmt.Sprintf(
			"%q matches %d units of template %s (%s); using %s",
			token, len(ids), template, strings.Join(ids, ", "), chosen))
	}
	return matches[0], nil
}

func (b *builder) replace(intent domain.Intent) error {
	with := strings.TrimSpace(intent.StringArg(domain.ArgWith))
	if with == "" {
		return &domain.UnrecognizedError{Raw: "replace without a destination unit"}
	}
	i, err := b.locate(intent.StringArg(domain.ArgTarget))
	if err != nil {
		return err
	}
	b.emit(domain.Replace(domain.Pointer("units", i, "template"), with))
	return nil
}

func (b *builder) set(intent domain.Intent) error {
	params := intent.Assignments()
	if len(params) == 0 {
		return &domain.UnrecognizedError{Raw: "set without parameters"}
	}

	i := 0
	if scope := intent.StringArg(domain.ArgScope); scope != "" {
		idx, err := b.locate(scope)
		if err != nil {
			return err
		}
		i = idx
	} else if len(b.scenario.Units) == 0 {
		return &NotFoundError{Token: "unit index 0"}
	}

	// "add" on a missing parent fails, so create the overrides object first.
	if len(b.scenario.Units[i].Overrides) == 0 {
		b.emit(domain.Add(domain.Pointer("units", i, "overrides"), map[string]any{}))
	}
	for _, p := range params {
		if p.Key == "" || !p.Value.Valid() {
			return fmt.Errorf("%w: invalid assignment %q", domain.ErrUnrecognizedCommand, p.Key)
		}
		b.emit(domain.Add(domain.Pointer("units", i, "overrides", p.Key), p.Value))
	}
	return nil
}

func (b *builder) add(intent domain.Intent) error {
	if at, ok := intent.Args[domain.ArgAt]; ok {
		return fmt.Errorf("%w: add ... at %v", domain.ErrNotImplemented, at)
	}
	template := strings.TrimSpace(intent.StringArg(domain.ArgUnit))
	if template == "" {
		return &domain.UnrecognizedError{Raw: "add without a unit"}
	}

	id := b.allocateID(template)

	// Resolve anchors before emitting anything so a bad reference yields no patch.
	var after, before string
	if tok := intent.StringArg(domain.ArgAfter); tok != "" {
		i, err := b.locate(tok)
		if err != nil {
			return err
		}
		after = b.scenario.Units[i].ID
	}
	if tok := intent.StringArg(domain.ArgBefore); tok != "" {
		i, err := b.locate(tok)
		if err != nil {
			return err
		}
		before = b.scenario.Units[i].ID
	}

	b.emit(domain.Add("/units/-", domain.UnitInstance{Template: template, ID: id}))

	switch {
	case after != "":
		b.spliceAfter(after, id)
	case before != "":
		b.spliceBefore(before, id)
	}
	return nil
}

// allocateID derives an id from the template, suffixing _2, _3, ... on collision.
func (b *builder) allocateID(template string) string {
	base := strings.ToLower(strings.Join(strings.Fields(template), "_"))
	if !b.scenario.HasUnit(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if !b.scenario.HasUnit(candidate) {
			return candidate
		}
	}
}

// spliceAfter rewires every outgoing edge of anchor through id.
// An anchor without outgoing edges simply gains anchor -> id.
func (b *builder) spliceAfter(anchor, id string) {
	var hit []int
	var targets []string
	seen := make(map[string]bool)
	for i, st := range b.scenario.Streams {
		if st.From != anchor {
			continue
		}
		hit = append(hit, i)
		if !seen[st.To] {
			seen[st.To] = true
			targets = append(targets, st.To)
		}
	}

	b.removeStreams(hit)
	b.emit(domain.Add("/streams/-", domain.StreamLink{From: anchor, To: id}))
	for _, to := range targets {
		b.emit(domain.Add("/streams/-", domain.StreamLink{From: id, To: to}))
	}
}

// spliceBefore rewires every incoming edge of anchor through id.
func (b *builder) spliceBefore(anchor, id string) {
	var hit []int
	var sources []string
	seen := make(map[string]bool)
	for i, st := range b.scenario.Streams {
		if st.To != anchor {
			continue
		}
		hit = append(hit, i)
		if !seen[st.From] {
			seen[st.From] = true
			sources = append(sources, st.From)
		}
	}

	b.removeStreams(hit)
	for _, from := range sources {
		b.emit(domain.Add("/streams/-", domain.StreamLink{From: from, To: id}))
	}
	b.emit(domain.Add("/streams/-", domain.StreamLink{From: id, To: anchor}))
}

// removeStreams emits removals for ascending indices in descending order.
func (b *builder) removeStreams(ascending []int) {
	for j := len(ascending) - 1; j >= 0; j-- {
		b.emit(domain.Remove(domain.Pointer("streams", ascending[j])))
	}
}

func (b *builder) remove(intent domain.Intent) error {
	i, err := b.locate(intent.StringArg(domain.ArgTarget))
	if err != nil {
		return err
	}
	id := b.scenario.Units[i].ID

	var incident []int
	for j, st := range b.scenario.Streams {
		if st.From == id || st.To == id {
			incident = append(incident, j)
		}
	}
	b.removeStreams(incident)
	b.emit(domain.Remove(domain.Pointer("units", i)))
	return nil
}

func (b *builder) connect(intent domain.Intent) error {
	from, err := b.locate(intent.StringArg(domain.ArgFrom))
	if err != nil {
		return err
	}
	to, err := b.locate(intent.StringArg(domain.ArgTo))
	if err != nil {
		return err
	}
	link := domain.StreamLink{From: b.scenario.Units[from].ID, To: b.scenario.Units[to].ID}
	if b.scenario.HasStream(link.From, link.To) {
		return nil
	}
	b.emit(domain.Add("/streams/-", link))
	return nil
}

func (b *builder) disconnect(intent domain.Intent) error {
	from := b.idOrToken(intent.StringArg(domain.ArgFrom))
	to := b.idOrToken(intent.StringArg(domain.ArgTo))

	for i := len(b.scenario.Streams) - 1; i >= 0; i-- {
		st := b.scenario.Streams[i]
		if st.From == from && st.To == to {
			b.emit(domain.Remove(domain.Pointer("streams", i)))
			return nil
		}
	}
	return nil
}

// idOrToken resolves token to a unit id, keeping the token itself when nothing matches.
func (b *builder) idOrToken(token string) string {
	token = strings.TrimSpace(token)
	if i, err := b.locate(token); err == nil {
		return b.scenario.Units[i].ID
	}
	return token
}

func (b *builder) duplicate(intent domain.Intent) error {
	newID := strings.TrimSpace(intent.StringArg(domain.ArgNewID))
	if newID == "" {
		return &domain.UnrecognizedError{Raw: "duplicate without a new id"}
	}
	i, err := b.locate(intent.StringArg(domain.ArgTarget))
	if err != nil {
		return err
	}
	if b.scenario.HasUnit(newID) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateID, newID)
	}

	src := b.scenario.Units[i]
	b.emit(domain.Add("/units/-", domain.UnitInstance{
		Template:  src.Template,
		ID:        newID,
		Overrides: maps.Clone(src.Overrides),
	}))
	return nil
}
