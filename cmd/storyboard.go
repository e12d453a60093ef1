package main

import (
	"github.com/spf13/cobra"

	"github.com/reelforge/adgen-cli/internal/model"
)

// storyboardArtifact is the output of the storyboard stage.
type storyboardArtifact struct {
	Product  *model.ProductInfo    `json:"product"`
	Creative *model.CreativeOutput `json:"creative"`
}

var (
	storyboardIn  string
	storyboardOut string
)

var storyboardCmd = &cobra.Command{
	Use:   "storyboard",
	Short: "Generate the four-scene ad narrative from research results",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in researchArtifact
		if err := readArtifact(storyboardIn, &in); err != nil {
			return err
		}

		ai, err := newAnthropic()
		if err != nil {
			return err
		}

		creative, err := newStoryboard(ai).Generate(cmd.Context(), in.Product, in.Research)
		if err != nil {
			return err
		}

		return writeArtifact(storyboardOut, storyboardArtifact{
			Product:  in.Product,
			Creative: creative,
		})
	},
}

func init() {
	storyboardCmd.Flags().StringVarP(&storyboardIn, "research", "r", "research.json", "research artifact file")
	storyboardCmd.Flags().StringVarP(&storyboardOut, "out", "o", "-", "output file (default stdout)")
	rootCmd.AddCommand(storyboardCmd)
}
