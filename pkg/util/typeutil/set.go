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

// Set 为基于 map 的泛型集合，非并发安全，由调用方加锁。
type Set[T comparable] map[T]struct{}

// NewSet 创建包含 elements 的集合。
func NewSet[T comparable](elements ...T) Set[T] {
	set := make(Set[T], len(elements))
	set.Insert(elements...)
	return set
}

// Insert 插入元素，已存在的忽略。
func (set Set[T]) Insert(elements ...T) {
	for _, e := range elements {
		set[e] = struct{}{}
	}
}

// TryInsert 在 element 不存在时插入并返回 true，已存在时返回 false。
func (set Set[T]) TryInsert(element T) bool {
	if _, ok := set[element]; ok {
		return false
	}
	set[element] = struct{}{}
	return true
}

// Contain 当且仅当所有 elements 都在集合中时返回 true。
func (set Set[T]) Contain(elements ...T) bool {
	for _, e := range elements {
		if _, ok := set[e]; !ok {
			return false
		}
	}
	return true
}

// Remove 删除元素，不存在的忽略。
func (set Set[T]) Remove(elements ...T) {
	for _, e := range elements {
		delete(set, e)
	}
}

func (set Set[T]) Len() int {
	return len(set)
}

// Clone 返回浅拷贝。
func (set Set[T]) Clone() Set[T] {
	out := make(Set[T], len(set))
	for e := range set {
		out[e] = struct{}{}
	}
	return out
}

// Collect 以切片形式返回全部元素，顺序不确定。
func (set Set[T]) Collect() []T {
	out := make([]T, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// Range 遍历集合，f 返回 false 时停止。
func (set Set[T]) Range(f func(element T) bool) {
	for e := range set {
		if !f(e) {
			return
		}
	}
}

func (set Set[T]) Clear() {
	clear(set)
}
