package value

import (
	"math"

	"github.com/axiom-lang/axiom/internal/diag"
)

// Arithmetic promotion (§4.A): Int op Int stays Int except for division,
// which always produces a Float; any operand being Float promotes the
// result to Float. Division and modulo by zero raise AXM_403 rather than
// producing Inf/NaN or panicking.

func isNumeric(v Value) bool { return v.kind == KindInt || v.kind == KindFloat }

func asFloat(v Value) float64 {
	if v.kind == KindInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func Add(a, b Value, span diag.Span) (Value, *diag.Diagnostic) {
	if a.kind == KindStr && b.kind == KindStr {
		return Str(&InternedString{Bytes: a.AsString().Bytes + b.AsString().Bytes}), nil
	}
	if !isNumeric(a) || !isNumeric(b) {
		return Nil, diag.New(diag.TypeMismatch, span).WithHelp("`+` requires two numbers or two strings")
	}
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.AsInt() + b.AsInt()), nil
	}
	return Float(asFloat(a) + asFloat(b)), nil
}

func Sub(a, b Value, span diag.Span) (Value, *diag.Diagnostic) {
	if !isNumeric(a) || !isNumeric(b) {
		return Nil, diag.New(diag.TypeMismatch, span).WithHelp("`-` requires two numbers")
	}
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.AsInt() - b.AsInt()), nil
	}
	return Float(asFloat(a) - asFloat(b)), nil
}

func Mul(a, b Value, span diag.Span) (Value, *diag.Diagnostic) {
	if !isNumeric(a) || !isNumeric(b) {
		return Nil, diag.New(diag.TypeMismatch, span).WithHelp("`*` requires two numbers")
	}
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.AsInt() * b.AsInt()), nil
	}
	return Float(asFloat(a) * asFloat(b)), nil
}

// Div always yields a Float (§4.A: "division always float"), and raises
// DivisionByZero rather than producing +/-Inf.
func Div(a, b Value, span diag.Span) (Value, *diag.Diagnostic) {
	if !isNumeric(a) || !isNumeric(b) {
		return Nil, diag.New(diag.TypeMismatch, span).WithHelp("`/` requires two numbers")
	}
	if asFloat(b) == 0 {
		return Nil, diag.New(diag.DivisionByZero, span)
	}
	return Float(asFloat(a) / asFloat(b)), nil
}

func Mod(a, b Value, span diag.Span) (Value, *diag.Diagnostic) {
	if !isNumeric(a) || !isNumeric(b) {
		return Nil, diag.New(diag.TypeMismatch, span).WithHelp("`%` requires two numbers")
	}
	if a.kind == KindInt && b.kind == KindInt {
		if b.AsInt() == 0 {
			return Nil, diag.New(diag.DivisionByZero, span)
		}
		return Int(a.AsInt() % b.AsInt()), nil
	}
	bf := asFloat(b)
	if bf == 0 {
		return Nil, diag.New(diag.DivisionByZero, span)
	}
	af := asFloat(a)
	return Float(af - bf*float64(int64(af/bf))), nil
}

func Pow(a, b Value, span diag.Span) (Value, *diag.Diagnostic) {
	if !isNumeric(a) || !isNumeric(b) {
		return Nil, diag.New(diag.TypeMismatch, span).WithHelp("`**` requires two numbers")
	}
	if a.kind == KindInt && b.kind == KindInt && b.AsInt() >= 0 {
		result := int64(1)
		base := a.AsInt()
		for i := int64(0); i < b.AsInt(); i++ {
			result *= base
		}
		return Int(result), nil
	}
	return Float(math.Pow(asFloat(a), asFloat(b))), nil
}

// Compare implements the four ordering comparisons for numbers and
// strings (lexicographic); other types are incomparable (§4.A).
func Compare(a, b Value, span diag.Span) (int, *diag.Diagnostic) {
	if isNumeric(a) && isNumeric(b) {
		af, bf := asFloat(a), asFloat(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.kind == KindStr && b.kind == KindStr {
		as, bs := a.AsString().Bytes, b.AsString().Bytes
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, diag.New(diag.TypeMismatch, span).WithHelp("values are not ordered")
}
