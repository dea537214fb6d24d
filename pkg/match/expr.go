package match

import (
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprVar is the name the tested value is bound to inside an
// expression matcher.
const ExprVar = "it"

// Expr compiles an expr-lang boolean expression into a matcher.
// The tested value is available as "it", for example
// `it > 2 && it < 10` or `len(it) == 3`. Evaluation errors make
// the matcher reject the value.
func Expr(source string) (Matcher, error) {
	program, err := expr.Compile(
		source,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile matcher expression %q: %w", source, err)
	}

	return New(
		"expr("+strconv.Quote(source)+")",
		func(v any) bool { return runExpr(program, v) },
	), nil
}

// MustExpr is like Expr but panics when source does not compile.
func MustExpr(source string) Matcher {
	m, err := Expr(source)
	if err != nil {
		panic(err)
	}
	return m
}

func runExpr(program *vm.Program, v any) bool {
	out, err := expr.Run(program, map[string]any{ExprVar: v})
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
