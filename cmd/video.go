package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	videoIn  string
	videoOut string
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Render the storyboard and publish the ad video",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in storyboardArtifact
		if err := readArtifact(videoIn, &in); err != nil {
			return err
		}
		if in.Creative == nil || len(in.Creative.Clips) == 0 {
			return eris.New("storyboard artifact has no clips")
		}

		pipeline, err := newMediaPipeline()
		if err != nil {
			return err
		}

		video, err := pipeline.Generate(cmd.Context(), in.Creative.Clips)
		if err != nil {
			return err
		}

		zap.L().Info("ad video ready",
			zap.String("playback_id", video.PlaybackID),
			zap.String("watch_url", "https://stream.mux.com/"+video.PlaybackID+".m3u8"),
		)
		return writeArtifact(videoOut, video)
	},
}

func init() {
	videoCmd.Flags().StringVarP(&videoIn, "storyboard", "s", "storyboard.json", "storyboard artifact file")
	videoCmd.Flags().StringVarP(&videoOut, "out", "o", "-", "output file (default stdout)")
	rootCmd.AddCommand(videoCmd)
}
