// Copyright 2024 The ReadySet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package mutator

import "github.com/readysetio/flowcore/internal/value"

// injectDroppedCols widens row, which holds only the table's current
// (post-drop) columns, back out to finalWidth by reinserting each
// dropped column's default value at its original absolute position.
//
// dropped maps an absolute column index to the default value that
// index should carry. The widening walks target positions from
// finalWidth-1 down to 0, consuming row's values from its tail forward:
// every dropped index is filled from the map, every other index pulls
// the next not-yet-placed value from row. Because both row and the
// dropped set are visited back to front, every surviving column lands
// at the same position it would have occupied before the drop.
func injectDroppedCols(row value.Row, dropped map[int]value.Value, finalWidth int) (value.Row, error) {
	if len(row)+len(dropped) != finalWidth {
		return nil, ErrWrongColumnCount
	}
	if len(dropped) == 0 {
		return row, nil
	}

	out := make(value.Row, finalWidth)
	src := len(row) - 1
	for i := finalWidth - 1; i >= 0; i-- {
		if dv, ok := dropped[i]; ok {
			out[i] = dv
			continue
		}
		out[i] = row[src]
		src--
	}
	return out, nil
}

// touchesDroppedColumn reports whether any of cols names a column the
// table has since dropped. Update and InsertOrUpdate use this to reject
// modifications that would otherwise need to reshape around a column
// whose value was never supplied.
func touchesDroppedColumn(cols []int, dropped map[int]value.Value) bool {
	for _, c := range cols {
		if _, ok := dropped[c]; ok {
			return true
		}
	}
	return false
}
