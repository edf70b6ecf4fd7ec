// Package golearn converts between Frames and golearn DenseInstances so a
// cleaned table (ratings joined with movie metadata, say) can be handed to a
// golearn model.
package golearn

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"

	"github.com/argentumzz/movie/pkg/frame"
)

// ToDenseInstances converts f into DenseInstances. Numeric columns become
// float attributes, with nulls stored as NaN; every other column becomes a
// categorical attribute over its text form, with null as "". class names the
// class attribute; "" picks the last column.
func ToDenseInstances(f *frame.Frame, class string) (*base.DenseInstances, error) {
	cols := f.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("golearn: frame has no columns")
	}
	classIdx := len(cols) - 1
	if class != "" {
		classIdx = -1
		for i, c := range cols {
			if c.Name() == class {
				classIdx = i
			}
		}
		if classIdx < 0 {
			return nil, &frame.Error{Op: "to_instances", Column: class, Err: frame.ErrColumnNotFound}
		}
	}

	attrs := make([]base.Attribute, len(cols))
	for i, c := range cols {
		if c.Kind().Numeric() {
			attrs[i] = base.NewFloatAttribute(c.Name())
			continue
		}
		ca := new(base.CategoricalAttribute)
		ca.SetName(c.Name())
		attrs[i] = ca
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}
	for r := 0; r < f.Rows(); r++ {
		for i, c := range cols {
			if c.Kind().Numeric() {
				v, ok := frame.Float(c, r)
				if !ok {
					v = math.NaN()
				}
				inst.Set(specs[i], r, base.PackFloatToBytes(v))
				continue
			}
			inst.Set(specs[i], r, attrs[i].GetSysValFromString(frame.Text(c, r)))
		}
	}
	if err := inst.AddClassAttribute(attrs[classIdx]); err != nil {
		return nil, err
	}
	return inst, nil
}

// FromDenseInstances converts DenseInstances back into a Frame of float and
// string columns. NaN floats read back as null.
func FromDenseInstances(inst *base.DenseInstances) (*frame.Frame, error) {
	attrs := inst.AllAttributes()
	_, nrows := inst.Size()
	cols := make([]frame.Column, len(attrs))
	for i, a := range attrs {
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		if _, ok := a.(*base.FloatAttribute); ok {
			fc := frame.NewFloatColumn(a.GetName(), nrows)
			for r := 0; r < nrows; r++ {
				fc.Set(r, base.UnpackBytesToFloat(inst.Get(spec, r)))
			}
			cols[i] = fc
			continue
		}
		sc := frame.NewStringColumn(a.GetName(), nrows)
		for r := 0; r < nrows; r++ {
			if v := a.GetStringFromSysVal(inst.Get(spec, r)); v != "" {
				sc.Set(r, v)
			}
		}
		cols[i] = sc
	}
	return frame.FromColumns(cols...)
}

// WriteARFF writes f as a dense ARFF file named relation; the last column is
// the class attribute.
func WriteARFF(path, relation string, f *frame.Frame) error {
	inst, err := ToDenseInstances(f, "")
	if err != nil {
		return err
	}
	if err := base.SerializeInstancesToDenseARFF(inst, path, relation); err != nil {
		return fmt.Errorf("golearn: write arff: %w", err)
	}
	return nil
}

// ReadARFF loads a dense ARFF file.
func ReadARFF(path string) (*frame.Frame, error) {
	inst, err := base.ParseDenseARFFToInstances(path)
	if err != nil {
		return nil, &frame.Error{Op: "read arff", Err: frame.ErrParseFailure, Detail: err.Error()}
	}
	return FromDenseInstances(inst)
}
