// Command aacldenc reads raw interleaved float32 little-endian PCM and
// writes encoded AAC-LD frames, one call to Encoder.EncodeFrame per
// input frame.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	aacld "github.com/gus-hallaq/aac-ld-encoder"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] InputPCMFile OutputAACFile\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "input/output of \"-\" means stdin/stdout\n\n")
	flag.PrintDefaults()
}

func main() {
	sampleRate := flag.Uint("rate", 48000, "sample rate in Hz")
	channels := flag.Uint("channels", 2, "channel count")
	bitrate := flag.Uint("bitrate", 128000, "target bitrate in bit/s")
	quality := flag.Float64("quality", 0.5, "quality knob, 0.0-1.0")
	useTNS := flag.Bool("tns", true, "enable temporal noise shaping")
	usePNS := flag.Bool("pns", false, "accept perceptual noise substitution flag (inert)")
	verbose := flag.Bool("v", false, "log per-frame progress")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	inputFile, outputFile := flag.Arg(0), flag.Arg(1)

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg := aacld.Config{
		SampleRate: uint32(*sampleRate),
		Channels:   uint8(*channels),
		Bitrate:    uint32(*bitrate),
		Quality:    float32(*quality),
		UseTNS:     *useTNS,
		UsePNS:     *usePNS,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error validating config: %v\n", err)
		os.Exit(1)
	}

	enc, err := aacld.NewEncoder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating encoder: %v\n", err)
		os.Exit(1)
	}
	logger.Info("encoder initialized",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"frame_size", cfg.FrameSize,
		"bitrate", cfg.Bitrate,
		"algorithmic_delay_samples", enc.AlgorithmicDelaySamples())

	var fin *os.File
	if inputFile == "-" {
		fin = os.Stdin
	} else if fin, err = os.Open(inputFile); err != nil {
		fmt.Fprintf(os.Stderr, "error opening input file: %s: %v\n", inputFile, err)
		os.Exit(1)
	}
	defer fin.Close()

	var fout *os.File
	if outputFile == "-" {
		fout = os.Stdout
	} else if fout, err = os.Create(outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "error opening output file: %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	defer fout.Close()

	frameSamples := enc.RecommendedBufferSize()
	raw := make([]byte, frameSamples*4)
	pcm := make([]float32, frameSamples)

	frameCount := 0
	for {
		_, err := io.ReadFull(fin, raw)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
			os.Exit(1)
		}

		for i := range pcm {
			bits := binary.LittleEndian.Uint32(raw[i*4:])
			pcm[i] = math.Float32frombits(bits)
		}

		frame, err := enc.EncodeFrame(pcm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error encoding frame %d: %v\n", frameCount, err)
			os.Exit(1)
		}
		if _, err := fout.Write(frame); err != nil {
			fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
			os.Exit(1)
		}

		frameCount++
		logger.Info("frame encoded", "frame", frameCount, "bytes", len(frame))
	}

	stats := enc.Stats()
	logger.Info("encoding complete",
		"frames", stats.FramesEncoded,
		"total_bytes", stats.TotalBits/8,
		"achieved_bitrate_kbps", enc.AchievedBitrateKbps(),
		"avg_snr_db", stats.AvgSNR(),
		"budget_misses", stats.BudgetMisses)
}
