package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Eyevinn/moqabr/internal"
)

const cmafMovFlags = "cmaf+separate_moof+delay_moov+skip_trailer+frag_every_frame"

type generateOptions struct {
	outDir          string
	videoKbps       []int
	audioKbps       []int
	width           int
	height          int
	frameRate       int
	audioSampleRate int
	duration        int
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a test bitrate ladder with ffmpeg",
		Long: `Generate fragmented MP4 test content, one file per rendition, that can be
used as a ladder source. Requires ffmpeg in PATH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			for _, kbps := range opts.audioKbps {
				name := filepath.Join(opts.outDir, fmt.Sprintf("audio_%dkbps.mp4", kbps))
				if err := runFFmpeg(cmd.Context(), logger, audioArgs(name, kbps, &opts)); err != nil {
					return fmt.Errorf("generate audio at %d kbps: %w", kbps, err)
				}
			}
			for _, kbps := range opts.videoKbps {
				name := filepath.Join(opts.outDir, fmt.Sprintf("video_%dkbps.mp4", kbps))
				if err := runFFmpeg(cmd.Context(), logger, videoArgs(name, kbps, &opts)); err != nil {
					return fmt.Errorf("generate video at %d kbps: %w", kbps, err)
				}
			}

			asset, err := internal.LoadAsset(opts.outDir, cfg.Asset.AudioSampleBatch, cfg.Asset.VideoSampleBatch)
			if err != nil {
				return fmt.Errorf("load generated asset: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderLadder(internal.LadderFromAsset(asset)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "out", "o", "ladder", "Output directory")
	f.IntSliceVar(&opts.videoKbps, "video", []int{400, 600, 900}, "Video bitrates in kbps")
	f.IntSliceVar(&opts.audioKbps, "audio", []int{128}, "Audio bitrates in kbps")
	f.IntVar(&opts.width, "width", 1280, "Video width")
	f.IntVar(&opts.height, "height", 720, "Video height")
	f.IntVar(&opts.frameRate, "framerate", 25, "Video frame rate")
	f.IntVar(&opts.audioSampleRate, "samplerate", 48000, "Audio sample rate")
	f.IntVar(&opts.duration, "duration", 10, "Duration in seconds")
	return cmd
}

func audioArgs(outputFile string, kbps int, opts *generateOptions) []string {
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("sine=frequency=1:beep_factor=880:sample_rate=%d", opts.audioSampleRate),
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", kbps),
		"-ar", strconv.Itoa(opts.audioSampleRate),
		"-ac", "2",
		"-t", strconv.Itoa(opts.duration),
		"-movflags", cmafMovFlags,
		outputFile,
	}
}

func videoArgs(outputFile string, kbps int, opts *generateOptions) []string {
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc=size=%dx%d:rate=%d:duration=%d:decimals=3",
			opts.width, opts.height, opts.frameRate, opts.duration),
		"-c:v", "libx264",
		"-b:v", fmt.Sprintf("%dk", kbps),
		"-preset", "medium",
		"-profile:v", "main",
		"-x264opts", fmt.Sprintf("keyint=%d:min-keyint=%d:scenecut=0:bframes=0:force-cfr=1",
			opts.frameRate, opts.frameRate),
		"-pix_fmt", "yuv420p",
		"-an",
		"-movflags", cmafMovFlags,
		outputFile,
	}
}

func runFFmpeg(ctx context.Context, logger *slog.Logger, args []string) error {
	logger.Info("running ffmpeg", "cmd", "ffmpeg "+strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Debug("ffmpeg output", "output", string(out))
		return err
	}
	return nil
}
