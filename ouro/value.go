package ouro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTUnit     ValueTag = iota // no payload
	VTNumber                   // Number
	VTString                   // string
	VTBool                     // bool
	VTFunction                 // *Function
	VTBuiltin                  // *Builtin
	VTRange                    // Range
)

var tagNames = [...]string{
	VTUnit:     "unit",
	VTNumber:   "number",
	VTString:   "string",
	VTBool:     "bool",
	VTFunction: "function",
	VTBuiltin:  "builtin",
	VTRange:    "range",
}

func (t ValueTag) String() string {
	if t >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("ValueTag(%d)", int(t))
}

// Value is a tagged runtime value. Data holds the Go payload matching Tag.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Number is a double with an "integer-valued" flag. Literals written without
// a fraction start as ints; arithmetic keeps the flag while both operands are
// ints and the result stays integral.
type Number struct {
	F     float64
	IsInt bool
}

// Function is a user-defined closure.
type Function struct {
	Name    string
	Params  []Param
	Body    *BlockStmt
	Env     *Env
	IsAsync bool
	IsGpu   bool
}

// BuiltinFn implements a host function. Arguments are already arity-checked.
type BuiltinFn func(ip *Interpreter, args []Value) (Value, error)

// Builtin is a host function. Arity < 0 means variadic.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFn
}

// Range is the half-open integer interval [Start, End).
type Range struct {
	Start int64
	End   int64
}

// Unit is the absence of a value.
var Unit = Value{Tag: VTUnit}

func Num(f float64) Value { return Value{Tag: VTNumber, Data: Number{F: f}} }
func Int(n int64) Value   { return Value{Tag: VTNumber, Data: Number{F: float64(n), IsInt: true}} }
func Str(s string) Value  { return Value{Tag: VTString, Data: s} }
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }

func FunVal(f *Function) Value    { return Value{Tag: VTFunction, Data: f} }
func BuiltinVal(b *Builtin) Value { return Value{Tag: VTBuiltin, Data: b} }
func RangeVal(start, end int64) Value {
	return Value{Tag: VTRange, Data: Range{Start: start, End: end}}
}

// numberValue builds a Number, keeping the int flag only for integral results.
func numberValue(f float64, wantInt bool) Value {
	return Value{Tag: VTNumber, Data: Number{F: f, IsInt: wantInt && isIntegral(f)}}
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// toInt64 converts an integral f, failing outside [MinInt64, MaxInt64].
// float64(MaxInt64) rounds up to 2^63, hence the strict upper bound.
func toInt64(f float64) (int64, bool) {
	if !isIntegral(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// AsNumber returns the payload of a number value.
func (v Value) AsNumber() (Number, bool) {
	n, ok := v.Data.(Number)
	return n, ok && v.Tag == VTNumber
}

// AsString returns the payload of a string value.
func (v Value) AsString() (string, bool) {
	s, ok := v.Data.(string)
	return s, ok && v.Tag == VTString
}

// Truthy implements the truth test used by if: false, 0, "" and unit are
// false; everything else is true.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTUnit:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTNumber:
		return v.Data.(Number).F != 0
	case VTString:
		return v.Data.(string) != ""
	}
	return true
}

// TypeName is the user-visible type name reported by type_of.
func TypeName(v Value) string {
	switch v.Tag {
	case VTNumber:
		if v.Data.(Number).IsInt {
			return "int"
		}
		return "float"
	case VTFunction, VTBuiltin:
		return "function"
	}
	return v.Tag.String()
}

// String renders a debug representation: strings are quoted.
func (v Value) String() string {
	if v.Tag == VTString {
		return quoteString(v.Data.(string))
	}
	return FormatValue(v)
}

// FormatValue renders v the way print and to_string show it.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTUnit:
		return "()"
	case VTNumber:
		return formatNumber(v.Data.(Number))
	case VTString:
		return v.Data.(string)
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTFunction:
		return "<fn " + v.Data.(*Function).Name + ">"
	case VTBuiltin:
		return "<builtin " + v.Data.(*Builtin).Name + ">"
	case VTRange:
		r := v.Data.(Range)
		return strconv.FormatInt(r.Start, 10) + ".." + strconv.FormatInt(r.End, 10)
	}
	return "<unknown>"
}

func formatNumber(n Number) string {
	if n.IsInt && math.Abs(n.F) < 1e21 {
		return strconv.FormatFloat(n.F, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n.F, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}
