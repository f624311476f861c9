package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flipkart-scraper/models"
	"flipkart-scraper/utils"
)

// CSVWriter exports stored products to a CSV file.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write saves all products to the CSV file, creating the output
// directory if it does not exist.
//
// CSV columns: title, image_url, price, created_at
func (w *CSVWriter) Write(products []models.Product) error {
	if len(products) == 0 {
		utils.Warn("No products to write")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush() // data stays in the buffer without this

	writer.Write([]string{"title", "image_url", "price", "created_at"})

	for _, p := range products {
		writer.Write([]string{
			p.Title,
			p.ImageURL,
			p.Price,
			p.CreatedAt.Format(time.RFC3339),
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	utils.Success("Saved %d products → %s", len(products), w.path)
	return nil
}
