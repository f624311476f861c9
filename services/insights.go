package services

import (
	"fmt"
	"strings"

	"flipkart-scraper/models"
)

// CleanProducts trims fields and drops records that fail the minimum-field
// policy, preserving order. The extractor already enforces the same rule,
// but records may arrive from other producers, so it is applied again here.
func CleanProducts(products []models.Product) []models.Product {
	cleaned := make([]models.Product, 0, len(products))

	for _, p := range products {
		p.Title = strings.TrimSpace(p.Title)
		p.ImageURL = strings.TrimSpace(p.ImageURL)
		p.Price = strings.TrimSpace(p.Price)

		if !p.Valid() {
			continue
		}

		cleaned = append(cleaned, p)
	}

	return cleaned
}

// PrintRunSummary renders the per-run counters after a scrape completes.
// Always printed, even for an empty run.
func PrintRunSummary(result models.RunResult) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║                SCRAPE COMPLETE               ║")
	fmt.Println("╠══════════════════════════════════════════════╣")
	fmt.Printf( "║  Products scraped : %-24d║\n", result.Scraped)
	fmt.Printf( "║  Products saved   : %-24d║\n", result.Saved)
	fmt.Printf( "║  Total in store   : %-24d║\n", result.Total)
	fmt.Println("╚══════════════════════════════════════════════╝")
	fmt.Println()
}

// PrintDBReport renders database statistics plus the latest stored products.
func PrintDBReport(stats models.DBStats, latest []models.Product) {
	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────────────────────┐")
	fmt.Println("│                     Database Statistics                      │")
	fmt.Println("├───────────────────────────────┬──────────────────────────────┤")
	fmt.Printf("│ %-29s │ %-28d │\n", "Total products", stats.Total)
	fmt.Printf("│ %-29s │ %-28d │\n", "Products with price", stats.WithPrice)
	fmt.Printf("│ %-29s │ %-28d │\n", "Products with image", stats.WithImage)
	fmt.Println("└───────────────────────────────┴──────────────────────────────┘")

	if len(latest) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("┌─────┬──────────────────────────────────────────────┬──────────┐")
	fmt.Println("│ #   │ Latest Products                              │ Price    │")
	fmt.Println("├─────┼──────────────────────────────────────────────┼──────────┤")
	for i, p := range latest {
		price := p.Price
		if price == "" {
			price = "-"
		}
		fmt.Printf("│ %-3d │ %-44s │ %-8s │\n", i+1, truncateText(p.Title, 44), truncateText(price, 8))
	}
	fmt.Println("└─────┴──────────────────────────────────────────────┴──────────┘")
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
