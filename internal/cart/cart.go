// Package cart holds the in-memory, session-scoped shopping cart. Lines live
// here until checkout persists them; nothing in this package touches the DB.
package cart

import (
	"sportsstore/internal/models"
)

type Line struct {
	Product    models.Product `json:"product"`
	Quantity   int            `json:"quantity"`
	IsRental   bool           `json:"is_rental"`
	RentalDays int            `json:"rental_days"`
}

// Total is unit price x quantity for purchases, rent price x max(days,1) x
// quantity for rentals.
func (l Line) Total() float64 {
	if l.IsRental {
		var rent float64
		if l.Product.RentPrice != nil {
			rent = *l.Product.RentPrice
		}
		days := l.RentalDays
		if days < 1 {
			days = 1
		}
		return rent * float64(days) * float64(l.Quantity)
	}
	return l.Product.Price * float64(l.Quantity)
}

type Cart struct {
	Lines []Line `json:"lines"`
}

// AddItem merges into the line matching (product, isRental): purchase adds
// quantity, rental replaces the day count when a positive one is supplied.
// A zero quantity on an existing rental line updates the days only.
func (c *Cart) AddItem(p models.Product, quantity int, isRental bool, rentalDays int) {
	if p.ID == 0 {
		return
	}
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.Product.ID != p.ID || l.IsRental != isRental {
			continue
		}
		if quantity > 0 {
			l.Quantity += quantity
		}
		if isRental && rentalDays > 0 {
			l.RentalDays = rentalDays
		}
		return
	}

	if quantity <= 0 {
		return
	}
	if !isRental {
		rentalDays = 0
	}
	c.Lines = append(c.Lines, Line{
		Product:    p,
		Quantity:   quantity,
		IsRental:   isRental,
		RentalDays: rentalDays,
	})
}

// RemoveLine drops every line matching (productID, isRental).
func (c *Cart) RemoveLine(productID uint, isRental bool) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Product.ID == productID && l.IsRental == isRental {
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
}

func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// Split separates purchase lines from rental lines for checkout.
func (c *Cart) Split() (purchase, rental []Line) {
	for _, l := range c.Lines {
		if l.IsRental {
			rental = append(rental, l)
		} else {
			purchase = append(purchase, l)
		}
	}
	return purchase, rental
}
