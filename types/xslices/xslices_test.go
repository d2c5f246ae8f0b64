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

package xslices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	s := []float64{2, 3, 5}
	c := Copy(s)
	require.Equal(t, s, c)
	c[0] = 7
	assert.Equal(t, 2.0, s[0])
}

func TestLast(t *testing.T) {
	assert.Equal(t, 5, Last([]int{2, 3, 5}))
}

func TestSliceWithValue(t *testing.T) {
	assert.Equal(t, []float32{3, 3, 3, 3}, SliceWithValue(4, float32(3)))
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
	assert.Empty(t, SortedKeys(map[string]int{}))
}

func TestMap(t *testing.T) {
	assert.Equal(t, []float64{1, 4, 9}, Map([]int{1, 2, 3}, func(e int) float64 { return float64(e * e) }))
}

func TestIota(t *testing.T) {
	assert.Equal(t, []float64{3, 4}, Iota(3.0, 2))
	assert.Equal(t, []int{0, 1, 2}, Iota(0, 3))
}
