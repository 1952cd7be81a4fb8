// Package record holds the named, shaped numeric fields that geometry and
// space views are built from.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gopdes/types"
	"github.com/notargets/gopdes/utils"
)

/*
Field is one numeric array of a record, stored column major (first index
fastest). In YAML/JSON a field is written as any of:

	nqn: 4                          # scalar
	nsh: [2, 2, 2]                  # vector
	jacdet: {dims: [2, 3], data: [...]}
*/
type Field struct {
	Dims []int     `json:"dims"`
	Data []float64 `json:"data"`
}

func NewScalar(val float64) Field {
	return Field{Data: []float64{val}}
}

func NewField(dims []int, data []float64) Field {
	return Field{Dims: append([]int(nil), dims...), Data: append([]float64(nil), data...)}
}

func (f *Field) UnmarshalJSON(b []byte) (err error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty field")
	}
	switch b[0] {
	case '{':
		type plain Field
		var p plain
		if err = json.Unmarshal(b, &p); err != nil {
			return
		}
		*f = Field(p)
	case '[':
		var v []float64
		if err = json.Unmarshal(b, &v); err != nil {
			return
		}
		*f = Field{Dims: []int{len(v)}, Data: v}
	default:
		var v float64
		if err = json.Unmarshal(b, &v); err != nil {
			return
		}
		*f = NewScalar(v)
	}
	return
}

// Size is the number of values the extents call for; a field without
// extents is a scalar.
func (f Field) Size() (int, error) {
	return utils.Size(f.Dims)
}

func (f Field) check(name string) error {
	size, err := f.Size()
	if err != nil {
		return types.SchemaErrorf("field %q: %v", name, err)
	}
	if size != len(f.Data) {
		return types.SchemaErrorf("field %q has extents %v (%d values) but %d values supplied",
			name, f.Dims, size, len(f.Data))
	}
	return nil
}

// Record is a bag of named fields, e.g. an exported mesh or space structure.
type Record map[string]Field

func (r *Record) Parse(data []byte) (err error) {
	if *r == nil {
		*r = make(Record)
	}
	if err = yaml.Unmarshal(data, r); err != nil {
		return fmt.Errorf("%w: %v", types.ErrSchema, err)
	}
	for name, f := range *r {
		if err = f.check(name); err != nil {
			return
		}
	}
	return
}

func ReadFile(path string) (r Record, err error) {
	var data []byte
	if data, err = ioutil.ReadFile(path); err != nil {
		return
	}
	r = make(Record)
	if err = r.Parse(data); err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}
	return
}

func (r Record) Names() (names []string) {
	names = make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

func (r Record) Print() {
	for _, name := range r.Names() {
		f := r[name]
		if len(f.Dims) == 0 && len(f.Data) == 1 {
			fmt.Printf("%-26s = %v\n", name, f.Data[0])
			continue
		}
		fmt.Printf("%-26s : dims %v\n", name, f.Dims)
	}
}

func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

func (r Record) field(name string) (f Field, err error) {
	var ok bool
	if f, ok = r[name]; !ok {
		err = types.SchemaErrorf("missing field %q", name)
		return
	}
	err = f.check(name)
	return
}

// Dims returns the declared extents of a field.
func (r Record) Dims(name string) (dims []int, err error) {
	var f Field
	if f, err = r.field(name); err != nil {
		return
	}
	dims = append([]int(nil), f.Dims...)
	return
}

// Int returns a scalar field that must hold a non-negative integer.
func (r Record) Int(name string) (val int, err error) {
	var f Field
	if f, err = r.field(name); err != nil {
		return
	}
	if len(f.Data) != 1 {
		err = types.SchemaErrorf("field %q must be a scalar, has extents %v", name, f.Dims)
		return
	}
	if val, err = toInt(name, f.Data[0]); err != nil {
		return
	}
	if val < 0 {
		err = types.SchemaErrorf("field %q must be non-negative, is %d", name, val)
	}
	return
}

// Tensor returns a private copy of the field shaped to dims. The declared
// extents must match dims up to the unit extents exporters drop.
func (r Record) Tensor(name string, dims ...int) (T utils.Tensor, err error) {
	var f Field
	if f, err = r.field(name); err != nil {
		return
	}
	if !utils.MatchExtents(f.Dims, dims) {
		err = types.SchemaErrorf("field %q has extents %v, expected %v", name, f.Dims, dims)
		return
	}
	if T, err = utils.NewTensor(dims, f.Data); err != nil {
		err = types.SchemaErrorf("field %q: %v", name, err)
	}
	return
}

// IntTensor is Tensor for fields holding integers.
func (r Record) IntTensor(name string, dims ...int) (T utils.IntTensor, err error) {
	var (
		f    Field
		ints []int
	)
	if f, err = r.field(name); err != nil {
		return
	}
	if !utils.MatchExtents(f.Dims, dims) {
		err = types.SchemaErrorf("field %q has extents %v, expected %v", name, f.Dims, dims)
		return
	}
	ints = make([]int, len(f.Data))
	for i, val := range f.Data {
		if ints[i], err = toInt(name, val); err != nil {
			return
		}
	}
	if T, err = utils.NewIntTensor(dims, ints); err != nil {
		err = types.SchemaErrorf("field %q: %v", name, err)
	}
	return
}

func toInt(name string, val float64) (int, error) {
	if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
		return 0, types.SchemaErrorf("field %q must hold integers, has %v", name, val)
	}
	return int(val), nil
}
