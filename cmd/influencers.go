package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/reelforge/adgen-cli/internal/model"
)

// influencersArtifact is the output of the discovery stage.
type influencersArtifact struct {
	Product     *model.ProductInfo `json:"product"`
	Influencers []model.Influencer `json:"influencers"`
}

var (
	influencersIn       string
	influencersName     string
	influencersBrand    string
	influencersCategory string
	influencersOut      string
)

var influencersCmd = &cobra.Command{
	Use:   "influencers",
	Short: "Discover and rank influencer candidates for the product",
	RunE: func(cmd *cobra.Command, args []string) error {
		product := &model.ProductInfo{
			Title:    influencersName,
			Brand:    influencersBrand,
			Category: influencersCategory,
		}
		if influencersIn != "" {
			var in researchArtifact
			if err := readArtifact(influencersIn, &in); err != nil {
				return err
			}
			product = in.Product
		}
		if product == nil || product.Title == "" {
			return eris.New("either --research or --name is required")
		}

		fc, err := newFirecrawl()
		if err != nil {
			return err
		}
		ai, err := newAnthropic()
		if err != nil {
			return err
		}

		found, err := newFinder(fc, ai).Find(cmd.Context(), product.Title, product.Category, product.Brand)
		if err != nil {
			return err
		}

		return writeArtifact(influencersOut, influencersArtifact{
			Product:     product,
			Influencers: found,
		})
	},
}

func init() {
	influencersCmd.Flags().StringVarP(&influencersIn, "research", "r", "", "research artifact file")
	influencersCmd.Flags().StringVar(&influencersName, "name", "", "product name (when no research artifact)")
	influencersCmd.Flags().StringVar(&influencersBrand, "brand", "", "product brand")
	influencersCmd.Flags().StringVar(&influencersCategory, "category", "", "product category")
	influencersCmd.Flags().StringVarP(&influencersOut, "out", "o", "-", "output file (default stdout)")
	rootCmd.AddCommand(influencersCmd)
}
