// Package seed populates empty catalog tables with a starter data set.
package seed

import (
	"fmt"

	"gorm.io/gorm"

	"sportsstore/internal/models"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func EnsurePopulated(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count == 0 {
		categories := []models.Category{
			{Name: "Used Textbooks", AllowRent: true},
			{Name: "Study Supplies", AllowRent: false},
			{Name: "Bags & Backpacks", AllowRent: false},
			{Name: "Tutoring", AllowRent: true},
			{Name: "Books & Comics", AllowRent: true},
			{Name: "Art Supplies", AllowRent: false},
			{Name: "Tablets & Accessories", AllowRent: false},
		}
		if err := db.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}

	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count == 0 {
		var byName []models.Category
		if err := db.Find(&byName).Error; err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		cat := make(map[string]uint, len(byName))
		for _, c := range byName {
			cat[c.Name] = c.ID
		}

		products := []models.Product{
			{
				Name:             "Intro to C Programming textbook",
				Description:      "First-year CS course textbook, lightly annotated.",
				CategoryID:       cat["Used Textbooks"],
				Price:            45000,
				RentPrice:        f(5000),
				RentDurationDays: i(7),
				Quantity:         20,
				Image:            "c-programming.jpg",
				IsForSale:        true,
				IsForRent:        true,
				ConditionPercent: 90,
			},
			{
				Name:             "Data Structures and Algorithms textbook",
				Description:      "Clean copy, no markings, 90% condition.",
				CategoryID:       cat["Used Textbooks"],
				Price:            50000,
				RentPrice:        f(7000),
				RentDurationDays: i(7),
				Quantity:         15,
				Image:            "dsa.jpg",
				IsForSale:        true,
				IsForRent:        true,
				ConditionPercent: 90,
			},
			{
				Name:             "Casio fx-580 calculator",
				Description:      "Fully working scientific calculator, all keys intact.",
				CategoryID:       cat["Study Supplies"],
				Price:            220000,
				Quantity:         8,
				Image:            "casio580.jpg",
				IsForSale:        true,
				ConditionPercent: 95,
			},
			{
				Name:             "Ballpoint pen box",
				Description:      "Box of 10 blue ballpoint pens, brand new.",
				CategoryID:       cat["Study Supplies"],
				Price:            18000,
				Quantity:         100,
				Image:            "pens.jpg",
				IsForSale:        true,
				ConditionPercent: 100,
			},
			{
				Name:             "Waterproof laptop backpack",
				Description:      "Fits a 15 inch laptop, black.",
				CategoryID:       cat["Bags & Backpacks"],
				Price:            120000,
				Quantity:         12,
				Image:            "laptop-backpack.jpg",
				IsForSale:        true,
				ConditionPercent: 90,
			},
			{
				Name:             "Mini projector",
				Description:      "Portable projector for small presentations.",
				CategoryID:       cat["Study Supplies"],
				Price:            50000,
				Quantity:         3,
				Image:            "mini-projector.jpg",
				IsForSale:        true,
				ConditionPercent: 85,
			},
		}
		if err := db.Create(&products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}

	if err := db.Model(&models.Tutor{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count == 0 {
		tutors := []models.Tutor{
			{
				Name:        "Alice Tran",
				Subject:     "Mathematics",
				HourlyRate:  150000,
				Description: "High-school and university math, 3 years of experience.",
				Image:       "tutor-alice.jpg",
				PhoneNumber: "0909123456",
				Email:       "alice.tran@example.com",
				Degree:      "BSc Mathematics Education",
			},
			{
				Name:        "Binh Le",
				Subject:     "English",
				HourlyRate:  180000,
				Description: "Conversational English and TOEIC prep, 900+ score.",
				Image:       "tutor-binh.jpg",
				PhoneNumber: "0912345678",
				Email:       "binh.le@example.com",
				Degree:      "MA English Linguistics",
			},
		}
		if err := db.Create(&tutors).Error; err != nil {
			return fmt.Errorf("seed tutors: %w", err)
		}
	}

	return nil
}
