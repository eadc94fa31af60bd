// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package typeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	set := NewSet("alice", "bob")
	assert.True(t, set.Contain("alice"))
	assert.True(t, set.Contain("alice", "bob"))
	assert.False(t, set.Contain("alice", "carol"))
	assert.False(t, set.Contain("Alice"))
	assert.Equal(t, 2, set.Len())

	set.Insert("alice")
	assert.Equal(t, 2, set.Len())

	set.Remove("bob", "nobody")
	assert.False(t, set.Contain("bob"))
	assert.ElementsMatch(t, []string{"alice"}, set.Collect())

	clone := set.Clone()
	clone.Insert("dave")
	assert.False(t, set.Contain("dave"))

	set.Clear()
	assert.Equal(t, 0, set.Len())
}

func TestSetTryInsert(t *testing.T) {
	set := NewSet[string]()
	assert.True(t, set.TryInsert("alice"))
	assert.False(t, set.TryInsert("alice"))
	assert.True(t, set.TryInsert("Alice"))
	assert.Equal(t, 2, set.Len())
}

func TestSetRangeStops(t *testing.T) {
	count := 0
	NewSet(1, 2, 3).Range(func(int) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
