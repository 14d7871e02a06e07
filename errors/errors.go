package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBoundary Phase = "boundary" // guest memory access
	PhaseDecode   Phase = "decode"   // gpu command decoding
	PhaseExecute  Phase = "execute"  // gpu command execution
	PhaseLoad     Phase = "load"     // cartridge loading
	PhaseHost     Phase = "host"     // capability registration
	PhaseRuntime  Phase = "runtime"  // guest entry point calls
	PhaseStorage  Phase = "storage"  // persistent storage
	PhaseAudio    Phase = "audio"    // audio playback
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds    Kind = "out_of_bounds"
	KindUnknownOpcode  Kind = "unknown_opcode"
	KindTruncated      Kind = "truncated"
	KindInvalidEnum    Kind = "invalid_enum"
	KindInvalidData    Kind = "invalid_data"
	KindStackOverflow  Kind = "stack_overflow"
	KindStackUnderflow Kind = "stack_underflow"
	KindReentrant      Kind = "reentrant"
	KindNotFound       Kind = "not_found"
	KindNotInitialized Kind = "not_initialized"
	KindInvalidInput   Kind = "invalid_input"
	KindRegistration   Kind = "registration"
	KindInstantiation  Kind = "instantiation"
	KindMissingImport  Kind = "missing_import"
	KindTrap           Kind = "trap"
	KindLimit          Kind = "limit"
	KindIO             Kind = "io"
)

// Targets for errors.Is. Matching compares Phase and Kind only.
var (
	ErrOutOfBounds    = &Error{Phase: PhaseBoundary, Kind: KindOutOfBounds}
	ErrUnknownOpcode  = &Error{Phase: PhaseDecode, Kind: KindUnknownOpcode}
	ErrTruncated      = &Error{Phase: PhaseDecode, Kind: KindTruncated}
	ErrStackOverflow  = &Error{Phase: PhaseExecute, Kind: KindStackOverflow}
	ErrStackUnderflow = &Error{Phase: PhaseExecute, Kind: KindStackUnderflow}
	ErrTrap           = &Error{Phase: PhaseRuntime, Kind: KindTrap}
)

// Error is the structured error type used throughout the host
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path (namespace, function, field)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates a guest memory range error.
func OutOfBounds(ptr, length uint32, size uint32) *Error {
	return &Error{
		Phase:  PhaseBoundary,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) exceeds memory size %d", ptr, uint64(ptr)+uint64(length), size),
		Value:  ptr,
	}
}

// UnknownOpcode creates a protocol error for an unrecognized opcode byte.
func UnknownOpcode(opcode byte, offset int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownOpcode,
		Detail: fmt.Sprintf("unknown gpu opcode 0x%02x at offset %d", opcode, offset),
		Value:  opcode,
	}
}

// Truncated creates a protocol error for a payload running past the submission.
func Truncated(what string, offset, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Path:   []string{what},
		Detail: fmt.Sprintf("need %d bytes at offset %d, %d remain", need, offset, have),
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Path:   path,
		Detail: fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// StackOverflow creates a stack-discipline error for a push past maxDepth.
func StackOverflow(what string, maxDepth int) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindStackOverflow,
		Path:   []string{what},
		Detail: fmt.Sprintf("push exceeds max depth %d", maxDepth),
		Value:  maxDepth,
	}
}

// StackUnderflow creates a stack-discipline error for a pop at the base depth.
func StackUnderflow(what string) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindStackUnderflow,
		Path:   []string{what},
		Detail: "pop at base depth",
	}
}

// Reentrant creates the error raised when an exclusive scope is opened twice.
func Reentrant(detail string) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindReentrant,
		Detail: detail,
	}
}

// Limit creates an error for an exhausted host-side limit.
func Limit(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLimit,
		Detail: detail,
	}
}

// Trap wraps a guest failure raised during an entry point call.
func Trap(entry string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTrap,
		Path:   []string{entry},
		Detail: "guest trapped",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingImport represents a single unresolved import
type MissingImport struct {
	Namespace string // e.g., "gpu"
	Function  string // e.g., "submit_gpu_commands"
}

// MissingImportsError is returned when a cartridge imports functions the host does not provide
type MissingImportsError struct {
	Imports []MissingImport
}

// NewMissingImportsError creates an error from a list of "namespace#function" strings
func NewMissingImportsError(imports []string) *MissingImportsError {
	result := &MissingImportsError{
		Imports: make([]MissingImport, 0, len(imports)),
	}
	for _, imp := range imports {
		ns, fn := parseImportKey(imp)
		result.Imports = append(result.Imports, MissingImport{
			Namespace: ns,
			Function:  fn,
		})
	}
	return result
}

func parseImportKey(key string) (namespace, function string) {
	ns, fn, found := strings.Cut(key, "#")
	if found {
		return ns, fn
	}
	return key, ""
}

func (e *MissingImportsError) Error() string {
	if len(e.Imports) == 0 {
		return "[load] missing_import: no imports specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "missing %d host function(s):\n", len(e.Imports))

	byNS := make(map[string][]string)
	var nsOrder []string
	for _, imp := range e.Imports {
		if _, exists := byNS[imp.Namespace]; !exists {
			nsOrder = append(nsOrder, imp.Namespace)
		}
		byNS[imp.Namespace] = append(byNS[imp.Namespace], imp.Function)
	}

	for _, ns := range nsOrder {
		b.WriteString("\n  ")
		b.WriteString(ns)
		b.WriteString(":\n")
		for _, fn := range byNS[ns] {
			b.WriteString("    - ")
			b.WriteString(fn)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingImportsError) Is(target error) bool {
	_, ok := target.(*MissingImportsError)
	return ok
}

// NotInitialized creates a not-initialized error for a missing module/instance
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate cartridge",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// IO creates an error for a failed host file operation.
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
