package main

import (
	"strings"

	"corevm/internal/call"
	"corevm/internal/tower"
	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// registerBuiltins installs the primitive table this driver hands the VM:
// the numeric tower's arithmetic and comparison operations plus a handful
// of string utilities, each wrapped to a call.Primitive's fixed-arity shape.
func registerBuiltins(reg *call.Registry) {
	reg.Register(call.New2("+", tower.Add))
	reg.Register(call.New2("-", tower.Sub))
	reg.Register(call.New2("*", tower.Mul))
	reg.Register(call.New2("/", tower.Div))
	reg.Register(call.New1("1+", tower.Inc))
	reg.Register(call.New1("1-", tower.Dec))
	reg.Register(call.New1("abs", tower.Abs))
	reg.Register(call.New1("neg", tower.Neg))
	reg.Register(call.New2("mod", tower.Mod))
	reg.Register(call.New2("remainder", tower.Remainder))
	reg.Register(call.New2("quotient", tower.Quotient))
	reg.Register(call.New2("gcd", tower.Gcd))
	reg.Register(call.New1("isqrt", tower.Isqrt))
	reg.Register(call.New1("sqrt", tower.Sqrt))
	reg.Register(call.New1("exp", wrapNoErr(tower.Exp)))
	reg.Register(call.New1("log", tower.Log))
	reg.Register(call.New1("sin", wrapNoErr(tower.Sin)))
	reg.Register(call.New1("cos", wrapNoErr(tower.Cos)))
	reg.Register(call.New1("tan", wrapNoErr(tower.Tan)))
	reg.Register(call.New2("expt", tower.Expt))
	reg.Register(call.New1("floor", tower.Floor))
	reg.Register(call.New1("ceiling", tower.Ceiling))
	reg.Register(call.New1("truncate", tower.Truncate))
	reg.Register(call.New1("round", tower.Round))

	reg.Register(call.New2("=", numCompare(func(c int) bool { return c == 0 })))
	reg.Register(call.New2("<", numCompare(func(c int) bool { return c < 0 })))
	reg.Register(call.New2(">", numCompare(func(c int) bool { return c > 0 })))
	reg.Register(call.New2("<=", numCompare(func(c int) bool { return c <= 0 })))
	reg.Register(call.New2(">=", numCompare(func(c int) bool { return c >= 0 })))

	reg.Register(call.New2("max", wrapMinMax(tower.Max)))
	reg.Register(call.New2("min", wrapMinMax(tower.Min)))

	reg.Register(call.New1("upper", stringFn(strings.ToUpper)))
	reg.Register(call.New1("lower", stringFn(strings.ToLower)))
	reg.Register(call.New1("trim", stringFn(strings.TrimSpace)))
	reg.Register(call.New1("string-length", stringLength))
}

func numCompare(pred func(int) bool) call.Fn2 {
	return func(x, y value.Value) (value.Value, error) {
		if !x.IsNumber() || !y.IsNumber() {
			return value.Value{}, vmerrors.BadArg("compare", "not a number")
		}
		if pred(tower.NumberCmp(x, y)) {
			return value.T, nil
		}
		return value.Nil, nil
	}
}

func wrapMinMax(f func(x, y value.Value) value.Value) call.Fn2 {
	return func(x, y value.Value) (value.Value, error) { return f(x, y), nil }
}

func wrapNoErr(f func(value.Value) value.Value) call.Fn1 {
	return func(x value.Value) (value.Value, error) { return f(x), nil }
}

func stringFn(f func(string) string) call.Fn1 {
	return func(v value.Value) (value.Value, error) {
		s, ok := value.StringValue(v)
		if !ok {
			return value.Value{}, vmerrors.BadArg("string-fn", "not a string")
		}
		return value.NewString(f(s.String())).AsValue(), nil
	}
}

func stringLength(v value.Value) (value.Value, error) {
	s, ok := value.StringValue(v)
	if !ok {
		return value.Value{}, vmerrors.BadArg("string-length", "not a string")
	}
	return value.Fixnum(int64(len(s.Bytes))), nil
}
