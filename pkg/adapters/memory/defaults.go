package memory

import "github.com/aretw0/nls/pkg/ontology"

// DefaultEntries is the built-in bioprocess unit catalogue used when no spec directory is configured.
func DefaultEntries() []ontology.Entry {
	return []ontology.Entry{
		{
			Template: "Fermenter_v1",
			Synonyms: []string{"fermenter", "fermentation", "bioreactor", "fermentor"},
			Parameters: []ontology.Parameter{
				{Key: "titer", Synonyms: []string{"product titer", "titre"}, Type: "float"},
				{Key: "working_volume", Synonyms: []string{"volume", "working volume"}, Type: "float"},
				{Key: "cycle_time", Synonyms: []string{"cycle time", "batch time"}, Type: "float"},
			},
		},
		{
			Template: "Centrifuge_v1",
			Synonyms: []string{"centrifuge", "disc stack", "disc stack centrifuge", "clarification"},
			Parameters: []ontology.Parameter{
				{Key: "solids_removal", Synonyms: []string{"solids removal"}, Type: "float"},
				{Key: "product_yield", Synonyms: []string{"yield"}, Type: "float"},
			},
		},
		{
			Template: "AEX_Membrane_v1",
			Synonyms: []string{"aex membrane", "anion exchange membrane", "aex", "membrane adsorber"},
			Parameters: []ontology.Parameter{
				{Key: "target_pH", Synonyms: []string{"ph", "target ph"}, Type: "float"},
				{Key: "recycle_fraction", Synonyms: []string{"recycle", "recycle fraction"}, Type: "float"},
				{Key: "membrane_area", Synonyms: []string{"area", "membrane area"}, Type: "float"},
			},
		},
		{
			Template: "ChitosanCapture_v1",
			Synonyms: []string{"chitosan capture", "chitosan", "chitosan precipitation"},
			Parameters: []ontology.Parameter{
				{Key: "target_pH", Synonyms: []string{"ph", "target ph"}, Type: "float"},
				{Key: "recycle_fraction", Synonyms: []string{"recycle", "recycle fraction"}, Type: "float"},
				{Key: "chitosan_dose", Synonyms: []string{"dose", "chitosan dose"}, Type: "float"},
			},
		},
		{
			Template: "ProteinA_Capture_v1",
			Synonyms: []string{"protein a", "protein a capture", "pro a"},
			Parameters: []ontology.Parameter{
				{Key: "resin_capacity", Synonyms: []string{"dbc", "binding capacity"}, Type: "float"},
				{Key: "cycles", Synonyms: []string{"resin cycles"}, Type: "int"},
			},
		},
		{
			Template: "ViralInactivation_v1",
			Synonyms: []string{"viral inactivation", "low ph hold", "vi"},
			Parameters: []ontology.Parameter{
				{Key: "hold_time", Synonyms: []string{"hold time"}, Type: "float"},
			},
		},
		{
			Template: "Diafiltration_v1",
			Synonyms: []string{"diafiltration", "uf/df", "ufdf", "tff"},
			Parameters: []ontology.Parameter{
				{Key: "diavolumes", Synonyms: []string{"dv", "dia volumes"}, Type: "float"},
				{Key: "concentration_factor", Synonyms: []string{"concentration factor", "cf"}, Type: "float"},
			},
		},
		{
			Template: "SprayDryer_v1",
			Synonyms: []string{"spray dryer", "spray drying", "dryer"},
			Parameters: []ontology.Parameter{
				{Key: "outlet_temperature", Synonyms: []string{"outlet temp", "outlet temperature"}, Type: "float"},
				{Key: "continuous", Synonyms: []string{"continuous mode"}, Type: "bool"},
			},
		},
	}
}
