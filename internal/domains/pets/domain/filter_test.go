package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFilter_Adoptable(t *testing.T) {
	adopted := true
	waiting := &Pet{Name: "TEF", Kind: KindDog, Custody: StewardedBy(10)}
	gone := &Pet{Name: "XEE", Kind: KindCat, Custody: StewardedBy(10), IsAdopted: adopted}
	owned := &Pet{Name: "XU", Kind: KindDog, Custody: OwnedBy(1)}

	f := ListFilter{Adoptable: true}
	assert.True(t, f.Matches(waiting))
	assert.False(t, f.Matches(gone))
	assert.False(t, f.Matches(owned))
}

func TestListFilter_SearchAndKind(t *testing.T) {
	tef := &Pet{Name: "TEF", Kind: KindDog, Custody: StewardedBy(10)}
	buff := &Pet{Name: "BUFF", Kind: KindCat, Custody: StewardedBy(10)}
	xaa := &Pet{Name: "XAA", Kind: KindDog, Custody: StewardedBy(11)}

	byOrg := ListFilter{Adoptable: true, Search: "Ong 01", SearchStewardIDs: []int64{10}}
	assert.True(t, byOrg.Matches(tef))
	assert.True(t, byOrg.Matches(buff))
	assert.False(t, byOrg.Matches(xaa))

	byName := ListFilter{Adoptable: true, Search: "uf", Kind: KindCat}
	assert.True(t, byName.Matches(buff))
	assert.False(t, byName.Matches(tef))
}

func TestListFilter_HoldersWithoutProfilesMatchNothing(t *testing.T) {
	assert.False(t, ListFilter{}.Matches(&Pet{Custody: OwnedBy(1)}))
}

func TestPage(t *testing.T) {
	items := []string{"XU", "XU", "XU", "PUFF", "TOFF", "TOFF"}

	assert.Equal(t, []string{"XU", "XU"}, Page(items, 0, 2))
	assert.Equal(t, []string{"XU", "PUFF"}, Page(items, 2, 2))
	assert.Equal(t, []string{"TOFF", "TOFF"}, Page(items, 4, 2))
	assert.Equal(t, items, Page(items, 0, 0))
	assert.Nil(t, Page(items, 6, 2))
}
