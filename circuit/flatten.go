/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package circuit

import (
	"reflect"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/gomlx/qbind/types/xslices"
)

// Flatten converts a scalar or an arbitrarily nested slice of any numeric Go
// type into a flat []float64 vector, in row-major order, along with the
// dimensions of the value. A scalar flattens to a 1-element vector with nil
// dimensions.
//
// All sub-slices at the same depth must have the same length, and slices
// must not be empty -- an empty slice carries no scalars to bind. It returns
// an error otherwise, or if the leaf type is not numeric.
func Flatten(value any) (flat []float64, dims []int, err error) {
	v := reflect.ValueOf(value)
	dims, err = dimsForValue(v)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "cannot flatten %T", value)
	}
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	flat, err = appendFlat(make([]float64, 0, size), v)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "cannot flatten %T", value)
	}
	return flat, dims, nil
}

// dimsForValue returns the dimensions of a nested slice value, verifying
// that sub-slices have regular (homogeneous) lengths.
func dimsForValue(v reflect.Value) ([]int, error) {
	if !v.IsValid() {
		return nil, errors.Errorf("nil value")
	}
	kind := v.Kind()
	if kind != reflect.Slice && kind != reflect.Array {
		return nil, nil
	}
	if v.Len() == 0 {
		return nil, errors.Errorf("empty slice holds no values to bind")
	}
	// The first element is the reference shape; siblings must match it.
	subDims, err := dimsForValue(v.Index(0))
	if err != nil {
		return nil, err
	}
	for ii := 1; ii < v.Len(); ii++ {
		siblingDims, err := dimsForValue(v.Index(ii))
		if err != nil {
			return nil, err
		}
		if !intSlicesEqual(subDims, siblingDims) {
			return nil, errors.Errorf("sub-slices have irregular shapes, found dimensions %v and %v",
				subDims, siblingDims)
		}
	}
	return append([]int{v.Len()}, subDims...), nil
}

func intSlicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for ii := range a {
		if a[ii] != b[ii] {
			return false
		}
	}
	return true
}

// appendFlat appends the scalar leaves of v to flat, in row-major order.
func appendFlat(flat []float64, v reflect.Value) ([]float64, error) {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		var err error
		for ii := 0; ii < v.Len(); ii++ {
			flat, err = appendFlat(flat, v.Index(ii))
			if err != nil {
				return nil, err
			}
		}
		return flat, nil
	case reflect.Float32, reflect.Float64:
		return append(flat, v.Float()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(flat, float64(v.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return append(flat, float64(v.Uint())), nil
	default:
		return nil, errors.Errorf("unsupported type %s for a circuit parameter value", v.Type())
	}
}

// FlattenScalars converts a slice of any numeric type to []float64. It is
// the generic fast path of Flatten for already-flat (rank-1) data.
func FlattenScalars[T constraints.Integer | constraints.Float](values []T) []float64 {
	return xslices.Map(values, func(v T) float64 { return float64(v) })
}

// Unflatten is the inverse of Flatten: it rebuilds a nested
// [][]...[]float64 value with the given dimensions from a flat vector.
// Called without dimensions it returns the single scalar.
//
// It returns an error if the flat vector does not hold exactly the number of
// elements the dimensions call for.
func Unflatten(flat []float64, dims ...int) (any, error) {
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	if len(flat) != size {
		return nil, errors.Errorf("cannot unflatten %d value(s) to dimensions %v (%d element(s))",
			len(flat), dims, size)
	}
	if len(dims) == 0 {
		return flat[0], nil
	}
	dataV := reflect.ValueOf(xslices.Copy(flat))
	return convertDataToSlices(dataV, dims...).Interface(), nil
}

// convertDataToSlices takes data as a flat slice and creates a multidimensional slice with the given dimensions that
// points to the given data.
func convertDataToSlices(dataV reflect.Value, dimensions ...int) reflect.Value {
	if len(dimensions) <= 1 {
		return dataV
	}
	resultT := dataV.Type().Elem()
	for range dimensions {
		resultT = reflect.SliceOf(resultT)
	}
	strides := make([]int, len(dimensions))
	currentStride := 1
	for dim := len(dimensions) - 1; dim >= 0; dim-- {
		strides[dim] = currentStride
		currentStride *= dimensions[dim]
	}
	return createSlicesRecursively(resultT, dataV, dimensions, strides)
}

// createSlicesRecursively recursively creates slices copy values on a multi-dimension slice to a flat data slice
// assuming the strides for each dimension.
func createSlicesRecursively(resultT reflect.Type, data reflect.Value, dimensions []int, strides []int) reflect.Value {
	if len(strides) == 1 {
		// Last level of slice, just copy over the slice (not the data, just the slice).
		return data
	}

	numElements := dimensions[0]
	slice := reflect.MakeSlice(resultT, numElements, numElements)

	subStrides := strides[1:]
	subDimensions := dimensions[1:]
	subResultT := resultT.Elem()
	for ii := 0; ii < numElements; ii++ {
		start := ii * strides[0]
		end := (ii + 1) * strides[0]
		subData := data.Slice(start, end)
		subSlice := createSlicesRecursively(subResultT, subData, subDimensions, subStrides)
		slice.Index(ii).Set(subSlice)
	}
	return slice
}
