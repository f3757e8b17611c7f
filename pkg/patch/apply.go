// Package patch applies RFC 6902 patches to Scenarios.
//
// Application and validation form one step: the patch is applied to the
// serialized form of a deep copy, and the result is returned only if it
// passes schema validation. The caller's Scenario is never modified.
package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/schema"
)

// Apply returns the Scenario obtained by applying p to s.
// Errors wrap domain.ErrPatchApplication or domain.ErrInvalidScenario.
func Apply(s domain.Scenario, p domain.Patch, opts ...schema.Option) (domain.Scenario, error) {
	doc, err := json.Marshal(s.Clone())
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("%w: encode scenario: %w", domain.ErrPatchApplication, err)
	}

	if len(p) > 0 {
		raw, err := json.Marshal(p)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("%w: encode patch: %w", domain.ErrPatchApplication, err)
		}
		decoded, err := jsonpatch.DecodePatch(raw)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("%w: decode patch: %w", domain.ErrPatchApplication, err)
		}
		doc, err = decoded.Apply(doc)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("%w: %w", domain.ErrPatchApplication, err)
		}
	}

	if err := schema.ValidateDocument(doc); err != nil {
		return domain.Scenario{}, fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}

	var out domain.Scenario
	if err := json.Unmarshal(doc, &out); err != nil {
		return domain.Scenario{}, fmt.Errorf("%w: decode scenario: %w", domain.ErrInvalidScenario, err)
	}
	if err := schema.ValidateRules(out, opts...); err != nil {
		return domain.Scenario{}, fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}
	return out, nil
}
