package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed entity.cue
var entitySchema string

// validator checks raw entity JSON against the #Entity definition.
type validator struct {
	ctx    *cue.Context
	entity cue.Value
}

func newValidator() (*validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(entitySchema, cue.Filename("entity.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compiling entity schema: %w", err)
	}
	def := root.LookupPath(cue.ParsePath("#Entity"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("looking up #Entity: %w", err)
	}
	return &validator{ctx: ctx, entity: def}, nil
}

// validate returns a readable summary of every constraint the entity
// violates, or "" when it conforms.
func (v *validator) validate(raw []byte) string {
	data := v.ctx.CompileBytes(raw, cue.Filename("entity.json"))
	if err := data.Err(); err != nil {
		return summarize(err)
	}
	if err := v.entity.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return summarize(err)
	}
	return ""
}

func summarize(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	seen := make(map[string]bool)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := e.Path(); len(path) > 0 {
			msg = strings.Join(path, ".") + ": " + msg
		}
		if !seen[msg] {
			seen[msg] = true
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}
