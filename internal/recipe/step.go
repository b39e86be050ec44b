package recipe

import (
	"fmt"
	"strings"

	"launcher/internal/profile"
)

// Step is a single action of a recipe. The set of steps is closed; the
// runner switches over the concrete types below
type Step interface {
	fmt.Stringer
	step()
}

// Param names a caller supplied value forwarded to a Run step
type Param string

const (
	PathParam   Param = "path"
	OutputParam Param = "output"
)

// Params holds the caller supplied values. Missing entries resolve to ""
type Params map[Param]string

func (params Params) Resolve(names []Param) []string {
	values := make([]string, len(names))
	for index, name := range names {
		values[index] = params[name]
	}

	return values
}

// RemoveFile deletes Path if it exists
type RemoveFile struct{ Path string }

// RemoveDir deletes the Path tree if it exists
type RemoveDir struct{ Path string }

type CopyFile struct{ Src, Dst string }

type CopyDir struct{ Src, Dst string }

// MakeDir creates Path unless it already exists
type MakeDir struct{ Path string }

// Run executes Command. Params are resolved at execution time and
// appended as extra arguments
type Run struct {
	Command         string
	Params          []Param
	RequireZeroExit bool
}

// Invoke executes the whole recipe of Target in place
type Invoke struct{ Target Target }

// Select materialises the template of Profile into profile.Slot
type Select struct{ Profile profile.Profile }

func (RemoveFile) step() {}
func (RemoveDir) step()  {}
func (CopyFile) step()   {}
func (CopyDir) step()    {}
func (MakeDir) step()    {}
func (Run) step()        {}
func (Invoke) step()     {}
func (Select) step()     {}

func (s RemoveFile) String() string { return "remove-file " + s.Path }
func (s RemoveDir) String() string  { return "remove-dir " + s.Path }
func (s CopyFile) String() string   { return fmt.Sprintf("copy-file %s %s", s.Src, s.Dst) }
func (s CopyDir) String() string    { return fmt.Sprintf("copy-dir %s %s", s.Src, s.Dst) }
func (s MakeDir) String() string    { return "make-dir " + s.Path }
func (s Invoke) String() string     { return "invoke " + s.Target.String() }
func (s Select) String() string     { return "select " + s.Profile.String() }

func (s Run) String() string {
	result := "run " + s.Command
	if len(s.Params) == 0 {
		return result
	}

	params := make([]string, len(s.Params))
	for index, param := range s.Params {
		params[index] = "$" + string(param)
	}

	return result + " " + strings.Join(params, " ")
}

// Recipe is the ordered list of steps bound to a target
type Recipe []Step

// Table maps every target to its recipe
type Table map[Target]Recipe
