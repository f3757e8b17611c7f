package domain

import "strconv"

// IntentType is the verb of a parsed command.
type IntentType string

const (
	IntentAdd        IntentType = "add"
	IntentReplace    IntentType = "replace"
	IntentRemove     IntentType = "remove"
	IntentSet        IntentType = "set"
	IntentConnect    IntentType = "connect"
	IntentDisconnect IntentType = "disconnect"
	IntentDuplicate  IntentType = "duplicate"
	IntentRun        IntentType = "run"
	IntentUnknown    IntentType = "unknown"
)

// IntentTypes lists every verb in grammar order.
var IntentTypes = []IntentType{
	IntentAdd, IntentReplace, IntentRemove, IntentSet, IntentConnect,
	IntentDisconnect, IntentDuplicate, IntentRun, IntentUnknown,
}

// Assignment is one key=value pair of a set command.
type Assignment struct {
	Key   string `json:"key"`
	Value Scalar `json:"value"`
}

// Intent is the structured form of a single command. It lives for one evaluation.
type Intent struct {
	Type IntentType     `json:"type"`
	Args map[string]any `json:"args"`
}

// NewIntent creates an Intent with an initialized argument map.
func NewIntent(t IntentType) Intent {
	return Intent{Type: t, Args: make(map[string]any)}
}

// Unknown wraps unparseable text.
func Unknown(raw string) Intent {
	return Intent{Type: IntentUnknown, Args: map[string]any{ArgRaw: raw}}
}

// StringArg returns a string argument or "" when absent.
func (i Intent) StringArg(key string) string {
	v, _ := i.Args[key].(string)
	return v
}

// IntArg returns an integer argument and whether it was present.
func (i Intent) IntArg(key string) (int, bool) {
	switch v := i.Args[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// Assignments returns the key/value pairs of a set intent in command order.
func (i Intent) Assignments() []Assignment {
	v, _ := i.Args[ArgParams].([]Assignment)
	return v
}

// RunRequest is what a run intent asks of the simulation collaborator.
type RunRequest struct {
	Mode    string `json:"mode"`
	Samples int    `json:"n,omitempty"`
}

// RunRequest extracts the run parameters, applying the deterministic default.
func (i Intent) RunRequest() RunRequest {
	req := RunRequest{Mode: i.StringArg(ArgMode)}
	if req.Mode == "" {
		req.Mode = RunDeterministic
	}
	if n, ok := i.IntArg(ArgSamples); ok {
		req.Samples = n
	}
	return req
}

// KPIs are the opaque results returned by the simulator.
type KPIs map[string]any
