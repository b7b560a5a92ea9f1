package schema

import (
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// Expr is the small expression language computed fields evaluate:
// length_of(path), sum_of_type_sizes(path, TypeName), sum_all_sizes(path),
// arithmetic over sub-expressions, and corresponding<Type>(array, field).
type Expr interface {
	// Eval evaluates the expression. self is the enclosing sequence's
	// in-progress field record (already-computed fields 0..i); it may be
	// nil when evaluating outside sequence scope (e.g. an array's
	// ComputedCountArray at the top of decode).
	Eval(ctx *fieldctx.Context, self map[string]fieldctx.Value) (fieldctx.Value, error)
}

// resolvePath resolves a field reference path. A path beginning with one
// or more "../" segments walks up that many parent frames; the remaining
// segment names the field in that frame. A plain name is looked up in
// self first (the enclosing sequence's own already-computed fields),
// falling back to FindParentField for names not yet present in self.
func resolvePath(ctx *fieldctx.Context, self map[string]fieldctx.Value, path string) (fieldctx.Value, error) {
	levelsUp := 0
	rest := path
	for len(rest) >= 3 && rest[:3] == "../" {
		levelsUp++
		rest = rest[3:]
	}

	if levelsUp > 0 {
		v, ok := ctx.GetParentField(levelsUp, rest)
		if !ok {
			return fieldctx.Value{}, errs.WrapEncode(path, errs.ErrMissingField)
		}

		return v, nil
	}

	if self != nil {
		if v, ok := self[rest]; ok {
			return v, nil
		}
	}

	if v, ok := ctx.FindParentField(rest); ok {
		return v, nil
	}

	return fieldctx.Value{}, errs.WrapEncode(path, errs.ErrMissingField)
}

type lengthOfExpr struct{ path string }

// LengthOf implements length_of(path): for scalar fields the numeric
// value itself; for Bytes/String the byte length; for array/TypeSizes
// fields the element count.
func LengthOf(path string) Expr { return lengthOfExpr{path: path} }

func (e lengthOfExpr) Eval(ctx *fieldctx.Context, self map[string]fieldctx.Value) (fieldctx.Value, error) {
	v, err := resolvePath(ctx, self, e.path)
	if err != nil {
		return fieldctx.Value{}, err
	}

	return fieldctx.NewU64(uint64(v.LengthOfValue())), nil
}

type sumOfTypeSizesExpr struct {
	path     string
	typeName string
}

// SumOfTypeSizes implements sum_of_type_sizes(path, TypeName): the total
// encoded byte size of path's elements whose declared type is typeName.
func SumOfTypeSizes(path, typeName string) Expr {
	return sumOfTypeSizesExpr{path: path, typeName: typeName}
}

func (e sumOfTypeSizesExpr) Eval(ctx *fieldctx.Context, self map[string]fieldctx.Value) (fieldctx.Value, error) {
	v, err := resolvePath(ctx, self, e.path)
	if err != nil {
		return fieldctx.Value{}, err
	}

	return fieldctx.NewU64(uint64(v.SumTypeSizes(e.typeName))), nil
}

type sumAllSizesExpr struct{ path string }

// SumAllSizes implements sum_all_sizes(path): the total encoded byte size
// of every element of path, regardless of type.
func SumAllSizes(path string) Expr { return sumAllSizesExpr{path: path} }

func (e sumAllSizesExpr) Eval(ctx *fieldctx.Context, self map[string]fieldctx.Value) (fieldctx.Value, error) {
	v, err := resolvePath(ctx, self, e.path)
	if err != nil {
		return fieldctx.Value{}, err
	}

	return fieldctx.NewU64(uint64(v.SumAllSizes())), nil
}

type constExpr struct{ v fieldctx.Value }

// ConstExpr wraps a literal value as an Expr, for use as an arithmetic
// operand.
func ConstExpr(v fieldctx.Value) Expr { return constExpr{v: v} }

func (e constExpr) Eval(_ *fieldctx.Context, _ map[string]fieldctx.Value) (fieldctx.Value, error) {
	return e.v, nil
}

type fieldRefExpr struct{ path string }

// FieldRef resolves path to its raw field value, for use as an
// arithmetic operand or as a standalone computed expression.
func FieldRef(path string) Expr { return fieldRefExpr{path: path} }

func (e fieldRefExpr) Eval(ctx *fieldctx.Context, self map[string]fieldctx.Value) (fieldctx.Value, error) {
	return resolvePath(ctx, self, e.path)
}

// ArithOp selects the arithmetic operator for Arith.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

type arithExpr struct {
	op   ArithOp
	a, b Expr
}

// Arith builds an arithmetic expression over two sub-expressions,
// evaluated as unsigned integers.
func Arith(op ArithOp, a, b Expr) Expr { return arithExpr{op: op, a: a, b: b} }

func (e arithExpr) Eval(ctx *fieldctx.Context, self map[string]fieldctx.Value) (fieldctx.Value, error) {
	av, err := e.a.Eval(ctx, self)
	if err != nil {
		return fieldctx.Value{}, err
	}
	bv, err := e.b.Eval(ctx, self)
	if err != nil {
		return fieldctx.Value{}, err
	}

	a, ok := av.AsUint64()
	if !ok {
		return fieldctx.Value{}, errs.NewInvalidValue("arithmetic operand is not numeric")
	}
	b, ok := bv.AsUint64()
	if !ok {
		return fieldctx.Value{}, errs.NewInvalidValue("arithmetic operand is not numeric")
	}

	var result uint64
	switch e.op {
	case OpAdd:
		result = a + b
	case OpSub:
		result = a - b
	case OpMul:
		result = a * b
	case OpDiv:
		if b == 0 {
			return fieldctx.Value{}, errs.NewInvalidValue("division by zero in computed expression")
		}
		result = a / b
	}

	return fieldctx.NewU64(result), nil
}

type correspondingExpr struct {
	typeName  string
	arrayName string
	field     string
}

// Corresponding implements corresponding<Type>(array, field): look up the
// current iteration index of arrayName (falling back to whichever array
// is currently being iterated, per GetAnyArrayIteration), find the Nth
// item of typeName in that array's decoded Items value, and return its
// named sub-field.
func Corresponding(typeName, arrayName, field string) Expr {
	return correspondingExpr{typeName: typeName, arrayName: arrayName, field: field}
}

func (e correspondingExpr) Eval(ctx *fieldctx.Context, self map[string]fieldctx.Value) (fieldctx.Value, error) {
	arrayName := e.arrayName
	idx, ok := ctx.GetArrayIteration(arrayName)
	if !ok {
		name, i, any := ctx.GetAnyArrayIteration()
		if !any {
			return fieldctx.Value{}, errs.ErrMissingField
		}
		arrayName, idx = name, i
	}

	arrVal, err := resolvePath(ctx, self, arrayName)
	if err != nil {
		return fieldctx.Value{}, err
	}

	item, ok := arrVal.NthItemOfType(e.typeName, idx)
	if !ok {
		return fieldctx.Value{}, errs.ErrMissingField
	}

	fv, ok := item.Fields[e.field]
	if !ok {
		return fieldctx.Value{}, errs.ErrMissingField
	}

	return fv, nil
}
