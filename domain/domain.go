/*
Package domain provides the categorical attribute domains, the schema
that groups them and the integer-encoded instances trees are grown from.
*/
package domain

import (
	"fmt"
	"strings"
)

// NotFound is the index IndexOf returns for categories that are not part
// of the domain.
const NotFound = -1

// Error is the type for the constant errors of the package
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrDuplicateCategory is returned when adding a category already present
// in a domain.
const ErrDuplicateCategory = Error("category already defined in domain")

/*
AttributeDomain represents a categorical attribute (or the class): a name
and an ordered list of categories whose positions are the integer codes
instances use to refer to them.

The used flag records whether the attribute has already been consumed
by a split along a tree path.
*/
type AttributeDomain struct {
	name       string
	categories []string
	index      map[string]int
	used       bool
}

/*
New takes a name string and a list of categories and returns an
AttributeDomain with them. Repeated categories are ignored so that codes
stay unique.
*/
func New(name string, categories ...string) *AttributeDomain {
	ad := &AttributeDomain{name: name, index: make(map[string]int, len(categories))}
	for _, c := range categories {
		ad.AddCategory(c)
	}
	return ad
}

/*
AddCategory appends a category to the domain and returns its code. If the
category already exists its current code is returned along with
ErrDuplicateCategory.
*/
func (ad *AttributeDomain) AddCategory(name string) (int, error) {
	if i, ok := ad.index[name]; ok {
		return i, ErrDuplicateCategory
	}
	if ad.index == nil {
		ad.index = make(map[string]int)
	}
	ad.categories = append(ad.categories, name)
	ad.index[name] = len(ad.categories) - 1
	return len(ad.categories) - 1, nil
}

/*
CategoryAt takes a code and returns the name of the category it
represents or an *OutOfRangeError if the code is not valid for the domain.
*/
func (ad *AttributeDomain) CategoryAt(i int) (string, error) {
	if i < 0 || i >= len(ad.categories) {
		return "", &OutOfRangeError{Domain: ad.name, Index: i, Len: len(ad.categories)}
	}
	return ad.categories[i], nil
}

// IndexOf returns the code for the given category or NotFound.
func (ad *AttributeDomain) IndexOf(name string) int {
	if i, ok := ad.index[name]; ok {
		return i
	}
	return NotFound
}

// MarkUsed flags the attribute as consumed by a split.
func (ad *AttributeDomain) MarkUsed() {
	ad.used = true
}

// IsUsed returns whether MarkUsed was called on the domain or the domain it was copied from.
func (ad *AttributeDomain) IsUsed() bool {
	return ad.used
}

// Name returns the name of the attribute
func (ad *AttributeDomain) Name() string {
	return ad.name
}

// Len returns the number of categories in the domain
func (ad *AttributeDomain) Len() int {
	return len(ad.categories)
}

// Categories returns a copy of the categories ordered by code
func (ad *AttributeDomain) Categories() []string {
	return append([]string(nil), ad.categories...)
}

// Valid returns whether the given code belongs to the domain
func (ad *AttributeDomain) Valid(code int) bool {
	return code >= 0 && code < len(ad.categories)
}

/*
Copy returns an independent clone of the domain, preserving its name,
categories and used flag.
*/
func (ad *AttributeDomain) Copy() *AttributeDomain {
	c := &AttributeDomain{
		name:       ad.name,
		categories: append([]string(nil), ad.categories...),
		index:      make(map[string]int, len(ad.index)),
		used:       ad.used,
	}
	for k, v := range ad.index {
		c.index[k] = v
	}
	return c
}

func (ad *AttributeDomain) String() string {
	return fmt.Sprintf("%s:%s", ad.name, strings.Join(ad.categories, ","))
}

/*
OutOfRangeError is returned when a code does not correspond to any
category of a domain.
*/
type OutOfRangeError struct {
	Domain string
	Index  int
	Len    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("code %d out of range for domain %s with %d categories", e.Index, e.Domain, e.Len)
}
