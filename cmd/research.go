package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/internal/research"
)

// researchArtifact is the output of the research stage and the input to the
// storyboard and outreach stages.
type researchArtifact struct {
	Product  *model.ProductInfo    `json:"product"`
	Research *model.MarketResearch `json:"research"`
}

var (
	researchURL      string
	researchName     string
	researchBrand    string
	researchCategory string
	researchOut      string
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Scrape a product page and research its market",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fc, err := newFirecrawl()
		if err != nil {
			return err
		}
		ai, err := newAnthropic()
		if err != nil {
			return err
		}

		product := &model.ProductInfo{
			Title:    researchName,
			Brand:    researchBrand,
			Category: researchCategory,
		}
		if researchURL != "" {
			product, err = research.FetchProduct(ctx, fc, researchURL)
			if err != nil {
				return err
			}
			if researchBrand != "" {
				product.Brand = researchBrand
			}
			if researchCategory != "" {
				product.Category = researchCategory
			}
		}
		if product.Title == "" {
			return eris.New("either --url or --name is required")
		}

		orch, err := newOrchestrator(fc, ai)
		if err != nil {
			return err
		}

		result, err := orch.Run(ctx, product.Title, product.Brand, product.Category)
		if err != nil {
			return err
		}

		return writeArtifact(researchOut, researchArtifact{
			Product:  product,
			Research: result,
		})
	},
}

func init() {
	researchCmd.Flags().StringVar(&researchURL, "url", "", "product page URL to scrape")
	researchCmd.Flags().StringVar(&researchName, "name", "", "product name (when no URL)")
	researchCmd.Flags().StringVar(&researchBrand, "brand", "", "product brand (overrides scraped value)")
	researchCmd.Flags().StringVar(&researchCategory, "category", "", "product category (overrides scraped value)")
	researchCmd.Flags().StringVarP(&researchOut, "out", "o", "-", "output file (default stdout)")
	rootCmd.AddCommand(researchCmd)
}
