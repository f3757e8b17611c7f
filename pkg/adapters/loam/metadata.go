package loam

// SpecMetadata represents a declarative unit specification record.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type SpecMetadata struct {
	Template   string          `json:"template" mapstructure:"template"`
	Synonyms   []string        `json:"synonyms" mapstructure:"synonyms"`
	Parameters []SpecParameter `json:"parameters" mapstructure:"parameters"`
	// Description is free documentation; it is carried for help output only.
	Description string `json:"description" mapstructure:"description"`
}

// SpecParameter is one parameter declaration of a spec record.
type SpecParameter struct {
	Key      string   `json:"key" mapstructure:"key"`
	Synonyms []string `json:"synonyms" mapstructure:"synonyms"`
	Type     string   `json:"type" mapstructure:"type"`
}

func (m SpecMetadata) empty() bool {
	return m.Template == "" && len(m.Synonyms) == 0 && len(m.Parameters) == 0
}
