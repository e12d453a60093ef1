package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Assembler joins scene clips and muxes the voiceover track. Split out as an
// interface so the pipeline is testable without ffmpeg on PATH.
type Assembler interface {
	// Concat joins the scene files in order into a single video.
	Concat(ctx context.Context, sceneFiles []string, outPath string) error
	// Mux overlays the audio track onto the video, trimming to the shorter
	// of the two streams.
	Mux(ctx context.Context, videoPath, audioPath, outPath string) error
}

// ffmpegAssembler shells out to ffmpeg.
type ffmpegAssembler struct {
	bin string
}

// NewAssembler returns an ffmpeg-backed Assembler. bin defaults to "ffmpeg".
func NewAssembler(bin string) Assembler {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &ffmpegAssembler{bin: bin}
}

// Concat writes a concat list file next to the scenes and re-encodes with
// libx264. Re-encoding is required: the generated scenes can differ in
// timebase and keyframe placement, which stream copy would corrupt.
func (a *ffmpegAssembler) Concat(ctx context.Context, sceneFiles []string, outPath string) error {
	if len(sceneFiles) == 0 {
		return eris.New("media: no scene files to concat")
	}

	listPath := filepath.Join(filepath.Dir(outPath), "concat.txt")
	var list strings.Builder
	for _, f := range sceneFiles {
		fmt.Fprintf(&list, "file '%s'\n", f)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return eris.Wrap(err, "media: write concat list")
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}
	return a.run(ctx, args)
}

// Mux copies the video stream and encodes the voiceover to AAC. -shortest
// trims the output to the shorter stream so a long voiceover never produces
// a frozen last frame.
func (a *ffmpegAssembler) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		outPath,
	}
	return a.run(ctx, args)
}

func (a *ffmpegAssembler) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, a.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		zap.L().Error("media: ffmpeg failed",
			zap.Strings("args", args),
			zap.String("output", tail(string(out), 2000)),
		)
		return eris.Wrapf(err, "media: %s %s", a.bin, args[0])
	}
	return nil
}

// tail returns the last n bytes of s. ffmpeg puts the useful error at the end.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
