package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestAttributeDomainCodes(t *testing.T) {
	ad := New("safety", "low", "med")
	i, err := ad.AddCategory("high")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	assert.Equal(t, 3, ad.Len())

	i, err = ad.AddCategory("low")
	assert.Equal(t, ErrDuplicateCategory, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, 3, ad.Len())

	assert.Equal(t, 1, ad.IndexOf("med"))
	assert.Equal(t, NotFound, ad.IndexOf("none"))

	c, err := ad.CategoryAt(2)
	require.NoError(t, err)
	assert.Equal(t, "high", c)
	assert.Equal(t, "safety:low,med,high", ad.String())
}

func TestAttributeDomainCategoryAtOutOfRange(t *testing.T) {
	ad := New("a", "x")
	for _, i := range []int{-1, 1, 10} {
		_, err := ad.CategoryAt(i)
		var oor *OutOfRangeError
		require.True(t, errors.As(err, &oor), "index %d", i)
		assert.Equal(t, i, oor.Index)
		assert.Equal(t, 1, oor.Len)
	}
}

func TestAttributeDomainCopyIsIndependent(t *testing.T) {
	ad := New("a", "x", "y")
	ad.MarkUsed()
	c := ad.Copy()
	assert.True(t, c.IsUsed())
	assert.Equal(t, ad.Categories(), c.Categories())

	c.AddCategory("z")
	assert.Equal(t, 2, ad.Len())
	assert.Equal(t, NotFound, ad.IndexOf("z"))

	fresh := New("b", "x")
	fc := fresh.Copy()
	fc.MarkUsed()
	assert.False(t, fresh.IsUsed())
}

func TestUsedSet(t *testing.T) {
	us := NewUsedSet(1, 70)
	next := us.With(3)
	assert.True(t, next.Has(3))
	assert.False(t, us.Has(3))
	assert.True(t, next.Has(70))
	assert.False(t, next.Has(-1))
	assert.False(t, next.Has(500))
	assert.Equal(t, 3, next.Len())
	assert.Equal(t, []int{1, 3, 70}, next.Indexes())
	assert.Equal(t, "{1,3,70}", next.String())

	attrs := []*AttributeDomain{New("a"), New("b")}
	marked := NewUsedSet(1).MarkDomains(attrs)
	assert.False(t, marked[0].IsUsed())
	assert.True(t, marked[1].IsUsed())
	assert.False(t, attrs[1].IsUsed())
}

func TestSchemaEncodeDecode(t *testing.T) {
	s := NewSchema(New("class", "p", "n"), New("A", "x", "y"), New("B", "u", "v", "w"))
	assert.Equal(t, 2, s.ClassIndex())
	assert.Equal(t, 2, s.ClassCount())
	assert.Equal(t, 1, s.Attribute("B"))
	assert.Equal(t, NotFound, s.Attribute("C"))

	inst, err := s.Encode([]string{"y", "w", "n"})
	require.NoError(t, err)
	assert.Equal(t, Instance{1, 2, 1}, inst)

	values, err := s.Decode(inst)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "w", "n"}, values)

	_, err = s.Encode([]string{"y", "n"})
	var mie *MalformedInputError
	assert.True(t, errors.As(err, &mie))

	_, err = s.Encode([]string{"y", "q", "n"})
	assert.True(t, errors.As(err, &mie))
	assert.Contains(t, mie.Error(), `unknown value "q" for B`)
}

func TestSchemaValidate(t *testing.T) {
	s := NewSchema(New("class", "p", "n"), New("A", "x", "y"))
	assert.NoError(t, s.Validate([]Instance{{0, 1}, {1, 0}}))

	err := s.Validate([]Instance{{0, 1}, {0}, {2, 0}, {0, 5}})
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	rows := []int{}
	for _, e := range errs {
		var mie *MalformedInputError
		require.True(t, errors.As(e, &mie))
		rows = append(rows, mie.Row)
	}
	assert.Equal(t, []int{1, 2, 3}, rows)
}
