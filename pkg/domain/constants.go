package domain

// Argument keys carried in Intent.Args.
const (
	ArgRaw     = "raw"
	ArgUnit    = "unit"
	ArgTarget  = "target"
	ArgWith    = "with"
	ArgAfter   = "after"
	ArgBefore  = "before"
	ArgAt      = "at"
	ArgParams  = "params"
	ArgScope   = "on"
	ArgFrom    = "from"
	ArgTo      = "to"
	ArgNewID   = "as"
	ArgMode    = "mode"
	ArgSamples = "n"
)

// Run modes understood by the simulation collaborator.
const (
	RunDeterministic = "deterministic"
	RunSobol         = "sobol"
)

// Distribution families accepted in Scenario.Uncertainty.
const (
	DistUniform   = "uniform"
	DistNormal    = "normal"
	DistLognormal = "lognormal"
)
