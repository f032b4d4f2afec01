// Package mcerr is the compiler's flat error taxonomy.
//
// Each failure mode gets its own exported struct implementing error. There
// is no generic "ErrorKind" enum: callers use errors.As to recover a
// specific variant when they need to branch on it, otherwise they just
// print Error().
package mcerr

import "fmt"

// CliError reports a command-line argument or file I/O problem.
type CliError struct{ Msg string }

func (e *CliError) Error() string { return e.Msg }

// ParserError reports a problem bubbled up from the parser.
type ParserError struct {
	Detail     string
	Begin, End int
}

func (e *ParserError) Error() string { return fmt.Sprintf("parse error: %s", e.Detail) }

// VariableAlreadyDefined reports a duplicate insert into a scope's name map.
type VariableAlreadyDefined struct {
	Name       string
	Begin, End int
}

func (e *VariableAlreadyDefined) Error() string {
	return fmt.Sprintf("variable %q is already defined in this scope", e.Name)
}

// VariableNotDefined reports a scope-chain lookup failure.
type VariableNotDefined struct {
	Name       string
	Begin, End int
}

func (e *VariableNotDefined) Error() string {
	return fmt.Sprintf("variable %q is not defined", e.Name)
}

// InvalidFunctionCall reports a callee that resolved to a non-function slot.
type InvalidFunctionCall struct {
	Name       string
	Begin, End int
}

func (e *InvalidFunctionCall) Error() string {
	return fmt.Sprintf("%q is not callable", e.Name)
}

// InvalidClassCall is reserved for a class/constructor callee that resolved
// to a non-constructible slot. Mini has no class construct today; kept in
// the taxonomy alongside InvalidFunctionCall for when one is added.
type InvalidClassCall struct {
	Name       string
	Begin, End int
}

func (e *InvalidClassCall) Error() string {
	return fmt.Sprintf("%q cannot be constructed", e.Name)
}

// InvalidNumberOfArguments is reserved for implementations that elect to
// arity-check statically. The ST visit
// pass in this repo never raises it; a runtime arity check could.
type InvalidNumberOfArguments struct {
	Name          string
	Expected, Got int
	Begin, End    int
}

func (e *InvalidNumberOfArguments) Error() string {
	return fmt.Sprintf("%q expects %d argument(s), got %d", e.Name, e.Expected, e.Got)
}

// InvalidArgumentType is reserved for implementations that elect to
// type-check call arguments statically.
type InvalidArgumentType struct {
	Name          string
	Expected, Got string
	Begin, End    int
}

func (e *InvalidArgumentType) Error() string {
	return fmt.Sprintf("%q expects argument of type %s, got %s", e.Name, e.Expected, e.Got)
}

// InvalidAssignment reports an assignment whose value's Kind cannot be
// assigned to the target's declared Kind.
type InvalidAssignment struct {
	Name          string
	Expected, Got string
	Begin, End    int
}

func (e *InvalidAssignment) Error() string {
	return fmt.Sprintf("cannot assign %s to %q of type %s", e.Got, e.Name, e.Expected)
}

// VariableTypeCannotBeInfered reports a `let`/`const` with no type
// annotation and no initializer to infer one from.
type VariableTypeCannotBeInfered struct {
	Name       string
	Begin, End int
}

func (e *VariableTypeCannotBeInfered) Error() string {
	return fmt.Sprintf("cannot infer type of %q: no annotation and no initializer", e.Name)
}

// CannotAssignConstVariable reports a write to a slot with IsWritable=false.
type CannotAssignConstVariable struct {
	Name       string
	Begin, End int
}

func (e *CannotAssignConstVariable) Error() string {
	return fmt.Sprintf("cannot assign to constant variable %q", e.Name)
}

// CannotReturnFromGlobalScope reports a `return` statement outside any
// function body.
type CannotReturnFromGlobalScope struct {
	Begin, End int
}

func (e *CannotReturnFromGlobalScope) Error() string {
	return "return statement is not allowed in the global scope"
}

// ExternalNotAllowed reports an `external` declaration whose name is not on
// the project's configured allowlist.
type ExternalNotAllowed struct {
	Name       string
	Begin, End int
}

func (e *ExternalNotAllowed) Error() string {
	return fmt.Sprintf("external declaration %q is not in the configured allowlist", e.Name)
}

// CodeGenError wraps anything the SSA backend (LLVM) reports.
type CodeGenError struct{ Msg string }

func (e *CodeGenError) Error() string { return fmt.Sprintf("codegen error: %s", e.Msg) }

// Range implementations let internal/diagnostics locate every positioned
// error variant without a type switch of its own.
func (e *ParserError) Range() (int, int)                 { return e.Begin, e.End }
func (e *VariableAlreadyDefined) Range() (int, int)      { return e.Begin, e.End }
func (e *VariableNotDefined) Range() (int, int)          { return e.Begin, e.End }
func (e *InvalidFunctionCall) Range() (int, int)         { return e.Begin, e.End }
func (e *InvalidClassCall) Range() (int, int)            { return e.Begin, e.End }
func (e *InvalidNumberOfArguments) Range() (int, int)    { return e.Begin, e.End }
func (e *InvalidArgumentType) Range() (int, int)         { return e.Begin, e.End }
func (e *InvalidAssignment) Range() (int, int)           { return e.Begin, e.End }
func (e *VariableTypeCannotBeInfered) Range() (int, int) { return e.Begin, e.End }
func (e *CannotAssignConstVariable) Range() (int, int)   { return e.Begin, e.End }
func (e *CannotReturnFromGlobalScope) Range() (int, int) { return e.Begin, e.End }
func (e *ExternalNotAllowed) Range() (int, int)          { return e.Begin, e.End }
