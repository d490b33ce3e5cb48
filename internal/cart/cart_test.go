package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sportsstore/internal/models"
)

func rent(v float64) *float64 { return &v }

func TestAddItemMergesPurchaseQuantity(t *testing.T) {
	c := &Cart{}
	p := models.Product{ID: 1, Name: "textbook", Price: 100}

	c.AddItem(p, 2, false, 0)
	c.AddItem(p, 3, false, 0)

	require.Len(t, c.Lines, 1)
	require.Equal(t, 5, c.Lines[0].Quantity)
	require.False(t, c.Lines[0].IsRental)
}

func TestAddItemRentalOverwritesDays(t *testing.T) {
	c := &Cart{}
	p := models.Product{ID: 1, Name: "textbook", Price: 100, RentPrice: rent(20), IsForRent: true}

	c.AddItem(p, 1, true, 3)
	c.AddItem(p, 0, true, 5)

	require.Len(t, c.Lines, 1)
	require.Equal(t, 5, c.Lines[0].RentalDays)
	require.Equal(t, 1, c.Lines[0].Quantity)
}

func TestAddItemKeepsPurchaseAndRentalSeparate(t *testing.T) {
	c := &Cart{}
	p := models.Product{ID: 1, Name: "textbook", Price: 100, RentPrice: rent(20)}

	c.AddItem(p, 1, false, 0)
	c.AddItem(p, 1, true, 3)

	require.Len(t, c.Lines, 2)
}

func TestTotal(t *testing.T) {
	c := &Cart{}
	purchase := models.Product{ID: 1, Name: "calculator", Price: 100}
	rental := models.Product{ID: 2, Name: "textbook", Price: 60, RentPrice: rent(20)}

	c.AddItem(purchase, 2, false, 0)
	c.AddItem(rental, 1, true, 3)

	require.Equal(t, float64(260), c.Total())
}

func TestRentalTotalUsesAtLeastOneDay(t *testing.T) {
	l := Line{
		Product:    models.Product{ID: 1, RentPrice: rent(20)},
		Quantity:   2,
		IsRental:   true,
		RentalDays: 0,
	}
	require.Equal(t, float64(40), l.Total())
}

func TestRemoveLine(t *testing.T) {
	c := &Cart{}
	p := models.Product{ID: 1, Price: 100, RentPrice: rent(20)}

	c.AddItem(p, 1, false, 0)
	c.AddItem(p, 1, true, 3)
	c.RemoveLine(1, false)

	require.Len(t, c.Lines, 1)
	require.True(t, c.Lines[0].IsRental)
}

func TestSplit(t *testing.T) {
	c := &Cart{}
	c.AddItem(models.Product{ID: 1, Price: 100}, 1, false, 0)
	c.AddItem(models.Product{ID: 2, Price: 50}, 2, false, 0)
	c.AddItem(models.Product{ID: 3, RentPrice: rent(10)}, 1, true, 7)

	purchase, rental := c.Split()
	require.Len(t, purchase, 2)
	require.Len(t, rental, 1)
}

func TestClear(t *testing.T) {
	c := &Cart{}
	c.AddItem(models.Product{ID: 1, Price: 100}, 1, false, 0)
	c.Clear()
	require.Empty(t, c.Lines)
	require.Equal(t, float64(0), c.Total())
}

func TestStoreIsPerUser(t *testing.T) {
	s := NewStore()
	s.Get(1).AddItem(models.Product{ID: 1, Price: 100}, 1, false, 0)

	require.Len(t, s.Get(1).Lines, 1)
	require.Empty(t, s.Get(2).Lines)

	s.Clear(1)
	require.Empty(t, s.Get(1).Lines)
}
