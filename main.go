package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"flipkart-scraper/config"
	"flipkart-scraper/models"
	"flipkart-scraper/scraper/flipkart"
	"flipkart-scraper/services"
	"flipkart-scraper/storage"
	"flipkart-scraper/utils"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		utils.Error("%v", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flipkart-scraper",
		Short:         "Scrapes Flipkart search results into PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(scrapeCmd(), statsCmd(), exportCmd())
	return root
}

func scrapeCmd() *cobra.Command {
	var (
		keyword  string
		pages    int
		headless bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Search a keyword and persist the extracted products",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("keyword") {
				cfg.Scraper.Keyword = keyword
			}
			if cmd.Flags().Changed("pages") {
				cfg.Scraper.MaxPages = pages
			}
			if cmd.Flags().Changed("headless") {
				cfg.Scraper.Headless = headless
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := storage.NewPostgresWriter(cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			fetcher := flipkart.NewChromeFetcher(ctx, cfg.Scraper)
			defer fetcher.Close()

			result, err := runScrape(ctx, cfg.Scraper, fetcher, store)
			services.PrintRunSummary(result)
			return err
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "smartphone", "search keyword")
	cmd.Flags().IntVarP(&pages, "pages", "p", config.MaxPagesCeiling, "max result pages to scrape")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	return cmd
}

// runScrape sequences one full run: schema → search → clean → insert →
// count. The fetcher session and the store are owned (and released) by the
// caller, so every exit path here is safe.
func runScrape(ctx context.Context, cfg config.ScraperConfig, fetcher flipkart.Fetcher, store storage.ProductStore) (models.RunResult, error) {
	var result models.RunResult

	// Nothing downstream can work without the table.
	if err := store.EnsureSchema(); err != nil {
		return result, err
	}

	utils.Section("SCRAPING: " + cfg.Keyword)
	scraper := flipkart.NewScraper(cfg, fetcher)
	products := services.CleanProducts(scraper.Search(ctx, cfg.Keyword, cfg.MaxPages))
	result.Scraped = len(products)

	saved, err := store.InsertBatch(products)
	result.Saved = saved
	if err != nil {
		return result, fmt.Errorf("failed to save products: %w", err)
	}
	if saved > 0 {
		utils.Success("Saved %d products to PostgreSQL", saved)
	}

	total, err := store.Count()
	if err != nil {
		return result, fmt.Errorf("failed to count products: %w", err)
	}
	result.Total = total

	return result, nil
}

func statsCmd() *cobra.Command {
	var latest int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics and the latest stored products",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := storage.NewPostgresWriter(cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			products, err := store.Products(latest)
			if err != nil {
				return err
			}

			services.PrintDBReport(stats, products)
			return nil
		},
	}

	cmd.Flags().IntVarP(&latest, "latest", "n", 10, "how many recent products to list")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all stored products to CSV, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Scraper.CSVPath
			}

			store, err := storage.NewPostgresWriter(cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			products, err := store.Products(0)
			if err != nil {
				return err
			}

			return storage.NewCSVWriter(out).Write(products)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV path (default from config)")
	return cmd
}
