// Package enforcer wraps a casbin evaluator built from the per-session policy
// tuple list. The model is fixed; the tuple set is fetched per session and a
// policy change is applied by building a replacement Enforcer, never by
// mutating a live one.
package enforcer

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/go-playground/errors/v5"
)

// modelText is the static policy model: a three-part request matched against
// six-column tuples under an allow-override effect. Columns beyond
// subject/object/action are reserved for model-specific matching (app scope).
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, app, p5, p6

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// policyColumns is the tuple width declared by the model.
const policyColumns = 6

// Enforcer answers whether a (subject, object, action) triple is permitted.
// It is an immutable snapshot: safe for concurrent readers, replaced (never
// updated) when the policy set changes.
type Enforcer struct {
	enforcer *casbin.Enforcer
}

// New builds an Enforcer from the full policy tuple list, preserving the
// delivery order of the tuples. Tuples narrower than the model are padded and
// wider ones truncated to the model's width.
func New(tuples [][]string) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, errors.Wrap(err, "model.NewModelFromString()")
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "casbin.NewEnforcer()")
	}

	for i, tuple := range tuples {
		if _, err := e.AddPolicy(pad(tuple)...); err != nil {
			return nil, errors.Wrapf(err, "casbin.Enforcer.AddPolicy() tuple %d", i)
		}
	}

	return &Enforcer{enforcer: e}, nil
}

// Enforce reports whether subject may perform action on object. It is pure
// and total over its inputs: no matching policy and evaluation failures both
// deny.
func (e *Enforcer) Enforce(subject, object, action string) bool {
	ok, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false
	}

	return ok
}

func pad(tuple []string) []interface{} {
	rule := make([]interface{}, policyColumns)
	for i := range rule {
		if i < len(tuple) {
			rule[i] = tuple[i]
		} else {
			rule[i] = ""
		}
	}

	return rule
}
