// Package model contains the questionnaire domain types shared between layers.
package model

import (
	"fmt"
	"strings"
)

// Category is one fixed life-domain label rated by the user.
type Category string

// DefaultCategories returns the twelve questionnaire categories in display order.
func DefaultCategories() []Category {
	return []Category{
		"家庭（婚姻或育儿除外）",
		"亲密关系（婚姻/情侣）",
		"养育",
		"朋友/社交生活",
		"工作",
		"教育/培训",
		"消遣/娱乐",
		"精神生活",
		"公民权利/社区生活",
		"身体状况（饮食、运动、睡眠）",
		"环境问题",
		"艺术、创意表达、美学",
	}
}

// CategorySet is an ordered, duplicate-free list of categories.
// Its length is the divisor used when normalizing the total score.
type CategorySet struct {
	order []Category
	index map[Category]int
}

// NewCategorySet validates labels and builds a set preserving their order.
func NewCategorySet(labels []Category) (CategorySet, error) {
	if len(labels) == 0 {
		return CategorySet{}, ErrEmptyCategorySet
	}
	s := CategorySet{
		order: make([]Category, 0, len(labels)),
		index: make(map[Category]int, len(labels)),
	}
	for _, c := range labels {
		if strings.TrimSpace(string(c)) == "" {
			return CategorySet{}, fmt.Errorf("%w: blank label", ErrInvalidCategory)
		}
		if _, dup := s.index[c]; dup {
			return CategorySet{}, fmt.Errorf("%w: duplicate label %q", ErrInvalidCategory, c)
		}
		s.index[c] = len(s.order)
		s.order = append(s.order, c)
	}
	return s, nil
}

// MustCategorySet is NewCategorySet for static label lists.
func MustCategorySet(labels []Category) CategorySet {
	s, err := NewCategorySet(labels)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of categories.
func (s CategorySet) Len() int { return len(s.order) }

// Contains reports whether c belongs to the set.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s.index[c]
	return ok
}

// At returns the category at position i.
func (s CategorySet) At(i int) (Category, bool) {
	if i < 0 || i >= len(s.order) {
		return "", false
	}
	return s.order[i], true
}

// All returns a copy of the categories in order.
func (s CategorySet) All() []Category {
	out := make([]Category, len(s.order))
	copy(out, s.order)
	return out
}
