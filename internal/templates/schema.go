package templates

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE []byte

// schemaValidator checks template documents against the embedded CUE schema.
type schemaValidator struct {
	ctx    *cue.Context
	schema cue.Value
}

var (
	validatorOnce sync.Once
	validator     *schemaValidator
	validatorErr  error
)

func loadSchema() (*schemaValidator, error) {
	validatorOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
		if v.Err() != nil {
			validatorErr = fmt.Errorf("compiling template schema: %w", v.Err())
			return
		}
		validator = &schemaValidator{
			ctx:    ctx,
			schema: v.LookupPath(cue.ParsePath("#Template")),
		}
	})
	return validator, validatorErr
}

// validate unifies the YAML document with #Template and returns one message
// per violation.
func (s *schemaValidator) validate(filename string, data []byte) []string {
	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return []string{err.Error()}
	}

	doc := s.ctx.BuildFile(file)
	if doc.Err() != nil {
		return errorMessages(doc.Err())
	}

	unified := s.schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return errorMessages(err)
	}
	return nil
}

func errorMessages(err error) []string {
	var msgs []string
	for _, e := range cueerrors.Errors(err) {
		msgs = append(msgs, cueerrors.Details(e, nil))
	}
	if len(msgs) == 0 {
		msgs = append(msgs, err.Error())
	}
	return msgs
}
