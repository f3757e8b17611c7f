package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/nls/pkg/domain"
)

// Resolver maps free text to canonical identifiers. *ontology.Snapshot implements it.
type Resolver interface {
	ResolveUnit(text string) string
	ResolveParam(text string) string
}

// Parser is responsible for converting command text into an Intent.
type Parser struct {
	resolver Resolver
}

// NewParser creates a new parser. A nil resolver leaves every token unresolved.
func NewParser(r Resolver) *Parser {
	if r == nil {
		r = identity{}
	}
	return &Parser{resolver: r}
}

type rule struct {
	verb    domain.IntentType
	pattern *regexp.Regexp
	build   func(p *Parser, m []string) (domain.Intent, bool)
}

// Patterns run against whitespace-collapsed text. Free-form tokens are lazy so they
// stop at the next keyword (with, after, before, at, on, as, ->).
var rules = []rule{
	{domain.IntentAdd, regexp.MustCompile(`(?i)^add (.+?)(?: (after|before|at) (.+))?$`), (*Parser).buildAdd},
	{domain.IntentReplace, regexp.MustCompile(`(?i)^replace (.+?) with (.+)$`), (*Parser).buildReplace},
	{domain.IntentRemove, regexp.MustCompile(`(?i)^remove (.+)$`), (*Parser).buildRemove},
	{domain.IntentSet, regexp.MustCompile(`(?i)^set (.+?)(?: on (.+))?$`), (*Parser).buildSet},
	{domain.IntentConnect, regexp.MustCompile(`(?i)^connect (.+?) ?-> ?(.+)$`), buildEdge(domain.IntentConnect)},
	{domain.IntentDisconnect, regexp.MustCompile(`(?i)^disconnect (.+?) ?-> ?(.+)$`), buildEdge(domain.IntentDisconnect)},
	{domain.IntentDuplicate, regexp.MustCompile(`(?i)^duplicate (.+?) as (.+)$`), (*Parser).buildDuplicate},
	{domain.IntentRun, regexp.MustCompile(`(?i)^run(?: (deterministic|sobol))?(?: n ?= ?(\d+))?$`), (*Parser).buildRun},
}

// Parse converts text into an Intent. It never fails: unmatched text yields an unknown intent.
func (p *Parser) Parse(text string) domain.Intent {
	raw := strings.TrimSpace(text)
	collapsed := strings.Join(strings.Fields(raw), " ")

	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(collapsed)
		if m == nil {
			continue
		}
		if intent, ok := r.build(p, m); ok {
			return intent
		}
		// A verb matched but its arguments are malformed; no other rule shares the verb.
		break
	}
	return domain.Unknown(raw)
}

func (p *Parser) buildAdd(m []string) (domain.Intent, bool) {
	intent := domain.NewIntent(domain.IntentAdd)
	intent.Args[domain.ArgUnit] = p.resolver.ResolveUnit(m[1])
	if m[2] != "" {
		intent.Args[strings.ToLower(m[2])] = strings.TrimSpace(m[3])
	}
	return intent, true
}

func (p *Parser) buildReplace(m []string) (domain.Intent, bool) {
	intent := domain.NewIntent(domain.IntentReplace)
	intent.Args[domain.ArgTarget] = strings.TrimSpace(m[1])
	intent.Args[domain.ArgWith] = p.resolver.ResolveUnit(m[2])
	return intent, true
}

func (p *Parser) buildRemove(m []string) (domain.Intent, bool) {
	intent := domain.NewIntent(domain.IntentRemove)
	intent.Args[domain.ArgTarget] = strings.TrimSpace(m[1])
	return intent, true
}

func (p *Parser) buildSet(m []string) (domain.Intent, bool) {
	params, ok := p.parseAssignments(m[1])
	if !ok {
		return domain.Intent{}, false
	}
	intent := domain.NewIntent(domain.IntentSet)
	intent.Args[domain.ArgParams] = params
	if scope := strings.TrimSpace(m[2]); scope != "" {
		intent.Args[domain.ArgScope] = scope
	}
	return intent, true
}

// parseAssignments splits "k=v, k2=v2". Every pair must have a non-empty key and value.
func (p *Parser) parseAssignments(list string) ([]domain.Assignment, bool) {
	parts := strings.Split(list, ",")
	out := make([]domain.Assignment, 0, len(parts))
	for _, part := range parts {
		key, value, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !found || key == "" || value == "" {
			return nil, false
		}
		out = append(out, domain.Assignment{
			Key:   p.resolver.ResolveParam(key),
			Value: domain.ParseScalar(value),
		})
	}
	return out, true
}

func buildEdge(t domain.IntentType) func(*Parser, []string) (domain.Intent, bool) {
	return func(_ *Parser, m []string) (domain.Intent, bool) {
		intent := domain.NewIntent(t)
		intent.Args[domain.ArgFrom] = strings.TrimSpace(m[1])
		intent.Args[domain.ArgTo] = strings.TrimSpace(m[2])
		return intent, true
	}
}

func (p *Parser) buildDuplicate(m []string) (domain.Intent, bool) {
	newID := strings.TrimSpace(m[2])
	if strings.ContainsAny(newID, " \t") {
		return domain.Intent{}, false
	}
	intent := domain.NewIntent(domain.IntentDuplicate)
	intent.Args[domain.ArgTarget] = strings.TrimSpace(m[1])
	intent.Args[domain.ArgNewID] = newID
	return intent, true
}

func (p *Parser) buildRun(m []string) (domain.Intent, bool) {
	intent := domain.NewIntent(domain.IntentRun)
	intent.Args[domain.ArgMode] = domain.RunDeterministic
	if m[1] != "" {
		intent.Args[domain.ArgMode] = strings.ToLower(m[1])
	}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil || n <= 0 {
			return domain.Intent{}, false
		}
		intent.Args[domain.ArgSamples] = n
	}
	return intent, true
}

type identity struct{}

func (identity) ResolveUnit(text string) string  { return strings.TrimSpace(text) }
func (identity) ResolveParam(text string) string { return strings.TrimSpace(text) }
