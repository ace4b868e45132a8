package level

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// Error codes reported by Load and Check.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeSchema       = "E200" // Value violates #Level
	ErrCodeUnknownType  = "E201" // Recipe or crate names an unknown ingredient
	ErrCodeCrate        = "E202" // Crate without ingredient
	ErrCodeReturnTarget = "E203" // Delivery return_to is missing or not a plate_return
	ErrCodeStock        = "E204" // Stock entry invalid for the appliance
	ErrCodeNoRecipes    = "E205" // Level has no recipes
	ErrCodeNoActors     = "E206" // Level has no actors
)

// LoadError is a level loading or validation failure.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a level from a .cue file or a directory of .cue files, checks
// it against #Level and the semantic rules, and decodes it. All semantic
// problems are reported, not just the first.
func Load(path string) (*Level, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("level not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing level: %v", err)}}
	}

	ctx := cuecontext.New()
	var value cue.Value
	if info.IsDir() {
		value, err = buildDir(ctx, path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading level: %v", err)}}
		}
		value = ctx.CompileBytes(data, cue.Filename(path))
	}
	if err != nil {
		return nil, []error{err}
	}

	lvl, errs := decode(ctx, value)
	if lvl != nil {
		lvl.Source = path
	}
	return lvl, errs
}

// Parse compiles a level from source. filename is used in positions only.
func Parse(src []byte, filename string) (*Level, []error) {
	ctx := cuecontext.New()
	return decode(ctx, ctx.CompileBytes(src, cue.Filename(filename)))
}

func buildDir(ctx *cue.Context, dir string) (cue.Value, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("scanning directory: %v", err)}
	}
	if len(matches) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	return ctx.BuildInstance(inst), nil
}

func decode(ctx *cue.Context, value cue.Value) (*Level, []error) {
	if err := value.Err(); err != nil {
		return nil, []error{cueError(ErrCodeBuildFailed, err)}
	}

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, []error{cueError(ErrCodeBuildFailed, fmt.Errorf("level schema: %w", err))}
	}
	def := schema.LookupPath(cue.ParsePath("#Level"))

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, schemaErrors(err)
	}

	var lvl Level
	if err := unified.Decode(&lvl); err != nil {
		return nil, []error{cueError(ErrCodeSchema, err)}
	}

	if errs := Check(&lvl, value); len(errs) > 0 {
		return &lvl, errs
	}
	return &lvl, nil
}

// schemaErrors reports every schema violation with its position.
func schemaErrors(err error) []error {
	var out []error
	for _, e := range cueerrors.Errors(err) {
		out = append(out, cueError(ErrCodeSchema, e))
	}
	if len(out) == 0 {
		out = append(out, &LoadError{Code: ErrCodeSchema, Message: err.Error()})
	}
	return out
}

// cueError extracts position info from CUE errors.
func cueError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
