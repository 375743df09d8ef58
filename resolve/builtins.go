// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "strings"

// DefaultBuiltins reports whether name is a standard CPython builtin.
// It is the default membership predicate for ResolveNames; callers
// analyzing a restricted or extended environment inject their own.
// The table is fixed so that resolution is deterministic and does not
// depend on any live interpreter.
func DefaultBuiltins(name string) bool { return pyBuiltins[name] }

// introspecting holds the builtins that can reach names by string.
var introspecting = map[string]bool{
	"eval":    true,
	"exec":    true,
	"globals": true,
	"locals":  true,
	"vars":    true,
}

var pyBuiltins = func() map[string]bool {
	m := make(map[string]bool)
	for _, name := range strings.Fields(builtinNames) {
		m[name] = true
	}
	return m
}()

// builtinNames is the union of CPython's builtins module across the
// supported interpreter versions, plus the module dunders that behave
// like predefined names.
const builtinNames = `
	abs aiter all anext any ascii bin bool breakpoint bytearray bytes
	callable chr classmethod compile complex copyright credits delattr
	dict dir divmod enumerate eval exec exit filter float format
	frozenset getattr globals hasattr hash help hex id input int
	isinstance issubclass iter len license list locals map max
	memoryview min next object oct open ord pow print property quit
	range repr reversed round set setattr slice sorted staticmethod str
	sum super tuple type vars zip

	True False None NotImplemented Ellipsis __debug__

	__import__ __build_class__ __name__ __file__ __doc__ __package__
	__loader__ __spec__ __builtins__

	ArithmeticError AssertionError AttributeError BaseException
	BaseExceptionGroup BlockingIOError BrokenPipeError BufferError
	BytesWarning ChildProcessError ConnectionAbortedError
	ConnectionError ConnectionRefusedError ConnectionResetError
	DeprecationWarning EOFError EncodingWarning EnvironmentError
	Exception ExceptionGroup FileExistsError FileNotFoundError
	FloatingPointError FutureWarning GeneratorExit IOError ImportError
	ImportWarning IndentationError IndexError InterruptedError
	IsADirectoryError KeyError KeyboardInterrupt LookupError
	MemoryError ModuleNotFoundError NameError NotADirectoryError
	NotImplementedError OSError OverflowError PendingDeprecationWarning
	PermissionError ProcessLookupError RecursionError ReferenceError
	ResourceWarning RuntimeError RuntimeWarning StopAsyncIteration
	StopIteration SyntaxError SyntaxWarning SystemError SystemExit
	TabError TimeoutError TypeError UnboundLocalError
	UnicodeDecodeError UnicodeEncodeError UnicodeError
	UnicodeTranslateError UnicodeWarning UserWarning ValueError Warning
	ZeroDivisionError
`
