package interact

// Rule is one named predicate in the connection validation chain. Check
// returns false to reject the candidate, in which case Message is surfaced
// as the rejection reason.
type Rule struct {
	Name    string
	Message string
	Check   func(c Candidate) bool
}

// DefaultRules returns the canonical chain for directional-constraint
// editors: no self-loop, then source polarity, then target polarity. The
// order matters: the chain short-circuits on the first failure so the user
// always sees exactly one deterministic reason.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "no-self-loop",
			Message: "cannot connect a node to itself",
			Check: func(c Candidate) bool {
				return c.SourceNode != c.TargetNode
			},
		},
		{
			Name:    "source-polarity",
			Message: "connections must start at an output port",
			Check: func(c Candidate) bool {
				return c.SourceKind == KindOutput
			},
		},
		{
			Name:    "target-polarity",
			Message: "connections must end on a body or input port",
			Check: func(c Candidate) bool {
				return c.TargetKind == KindBody || c.TargetKind == KindInput
			},
		},
	}
}

// Validate runs the chain over c, stopping at the first failing rule.
func Validate(rules []Rule, c Candidate) (failed *Rule, ok bool) {
	for i := range rules {
		if !rules[i].Check(c) {
			return &rules[i], false
		}
	}
	return nil, true
}
