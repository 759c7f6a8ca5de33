package render

import "fmt"

// Stage names one of the three template evaluations of a run
type Stage string

// Render stages in evaluation order
const (
	StageArt    Stage = "art"
	StageInfo   Stage = "info"
	StageLayout Stage = "layout"
)

// BridgeError means a value could not be written into the template environment.
type BridgeError struct {
	Stage Stage
	Name  string
	Err   error
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("%s template: set %s: %v", e.Stage, e.Name, e.Err)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// EvaluationError means a template failed to run or left no string output.
type EvaluationError struct {
	Stage Stage
	// Source is the override path, or "builtin".
	Source string
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s template (%s): %v", e.Stage, e.Source, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
