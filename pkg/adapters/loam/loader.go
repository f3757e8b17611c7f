package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/nls/pkg/ontology"
)

// Loader adapts the Loam library to the ports.OntologyLoader interface.
// Each document in the repository is one unit specification record.
type Loader struct {
	Repo *loam.TypedRepository[SpecMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[SpecMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository over dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric types consistent across Markdown/YAML/JSON records,
	// read-only mode keeps Loam from creating anything in the spec directory.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[SpecMetadata](repo)), nil
}

// Load lists every record and converts it into ontology entries sorted by template.
// Records without a template fall back to their file stem; documents with no
// spec fields at all (READMEs) are skipped.
func (l *Loader) Load(ctx context.Context) ([]ontology.Entry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entries := make([]ontology.Entry, 0, len(docs))

	for _, doc := range docs {
		meta := doc.Data
		if meta.empty() {
			continue
		}

		template := strings.TrimSpace(meta.Template)
		if template == "" {
			template = stem(doc.ID)
		}

		// Collision Detection
		if existing, ok := seen[template]; ok {
			return nil, fmt.Errorf("collision detected: template '%s' is defined in both '%s' and '%s'", template, existing, doc.ID)
		}
		seen[template] = doc.ID

		entries = append(entries, toEntry(template, meta))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Template < entries[j].Template })
	return entries, nil
}

func toEntry(template string, meta SpecMetadata) ontology.Entry {
	e := ontology.Entry{
		Template: template,
		Synonyms: cleanList(meta.Synonyms),
	}
	for _, p := range meta.Parameters {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			continue
		}
		e.Parameters = append(e.Parameters, ontology.Parameter{
			Key:      key,
			Synonyms: cleanList(p.Synonyms),
			Type:     strings.ToLower(strings.TrimSpace(p.Type)),
		})
	}
	return e
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stem(id string) string {
	base := filepath.Base(filepath.ToSlash(id))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
