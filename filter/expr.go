package filter

import (
	"errors"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
)

// Item is one decoded JSON object returned by a list endpoint.
type Item = map[string]any

// Filter is a compiled boolean expression over an Item. Filters are safe for
// concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
	funcs      map[string]any
}

// Expression returns the source text the filter was compiled from
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against item. Every top-level key of item is a
// variable; the whole object is also available as "item".
func (f *Filter) Match(item Item) (bool, error) {
	result, err := expr.Run(f.program, runtimeEnv(item, f.funcs))
	if err != nil {
		return false, err
	}
	// AsBool at compile time guarantees the type
	return result.(bool), nil
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache keeps up to size compiled expressions
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache[*Filter](size)
		}
	}
}

// WithFunctions adds helper functions to every expression
func WithFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		if c.funcs == nil {
			c.funcs = make(map[string]any, len(funcs))
		}
		maps.Copy(c.funcs, funcs)
		maps.Copy(c.helpers, funcs)
	}
}

// Compiler turns expressions into Filters
type Compiler struct {
	helpers map[string]any
	funcs   map[string]any
	cache   *lruCache[*Filter]
}

// NewCompiler creates a compiler with the built-in helpers
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{helpers: helperFunctions()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and type-checks expression. The result must be boolean.
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helpers),
		expr.AllowUndefinedVariables(), // item fields are only known at runtime
		expr.AsBool(),
	)
	if err != nil {
		return nil, compilationError(expression, err)
	}

	filter := &Filter{expression: expression, program: program, funcs: c.funcs}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

// compilationError keeps the position expr reports for syntax and type errors
func compilationError(expression string, err error) *CompilationError {
	compErr := &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		compErr.Reason = fileErr.Message
		compErr.Column = fileErr.Column + 1
	}
	return compErr
}

// CacheSize returns the number of cached filters
func (c *Compiler) CacheSize() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// ClearCache drops every cached filter
func (c *Compiler) ClearCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

func helperFunctions() map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)
	// Bound per item in runtimeEnv; declared here so calls type-check.
	env["has"] = func(string) bool { return false }
	env["custom"] = func(string) any { return nil }
	return env
}

// addHelperFunctions installs the helpers shared by compile and run time.
// TestRail timestamps are unix seconds, so date helpers speak unix seconds too.
func addHelperFunctions(env map[string]any) {
	env["now"] = func() int64 {
		return time.Now().Unix()
	}
	env["daysAgo"] = func(days int) int64 {
		return time.Now().AddDate(0, 0, -days).Unix()
	}
	env["daysSince"] = func(ts any) int {
		seconds, ok := toUnix(ts)
		if !ok || seconds == 0 {
			return 0
		}
		return int(time.Since(time.Unix(seconds, 0)).Hours() / 24)
	}
	env["parseDate"] = func(value string) int64 {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return 0
		}
		return t.Unix()
	}
	// contains, startsWith and endsWith are case-sensitive operators in
	// expr, so the case-insensitive forms take an i prefix.
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runtimeEnv exposes the item's fields plus the helpers. Helpers win over
// item keys of the same name.
func runtimeEnv(item Item, funcs map[string]any) map[string]any {
	env := make(map[string]any, len(item)+len(funcs)+16)
	maps.Copy(env, item)
	env["item"] = item
	addHelperFunctions(env)
	maps.Copy(env, funcs)

	env["has"] = func(key string) bool {
		value, ok := item[key]
		return ok && value != nil
	}
	env["custom"] = func(name string) any {
		if !strings.HasPrefix(name, "custom_") {
			name = "custom_" + name
		}
		return item[name]
	}
	return env
}

func toUnix(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
