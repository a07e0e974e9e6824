// Command tagger resolves a YouTube URL, prints its transcript and the tags
// generated for it, then exits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"yt-tagger/internal/platform/config"
	"yt-tagger/internal/platform/logger"
	"yt-tagger/internal/tagger"
	"yt-tagger/internal/tags"
	"yt-tagger/internal/transcript"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = config.Load()
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("tagger", flag.ContinueOnError)
	fs.SetOutput(stderr)
	url := fs.String("url", "", "YouTube video URL")
	maxTags := fs.Int("tags", cfg.MaxTags, "maximum number of tags")
	transcriptOnly := fs.Bool("transcript-only", false, "print the transcript and skip tag generation")
	key := fs.String("key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var rawURL *string
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "url" {
			rawURL = url
		}
	})

	log := logger.NewWriter(stderr, cfg.LogLevel, "text")

	provider := transcript.NewYouTubeProvider(transcript.Options{
		Language:      cfg.TranscriptLanguage,
		RatePerSecond: cfg.YouTubeRatePerSec,
	})
	completer, err := tags.NewCompleter(cfg.TagBackend, tags.BackendOptions{
		Model:   cfg.TagModel,
		BaseURL: cfg.TagBaseURL,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	svc := tagger.NewService(provider, tags.NewGenerator(completer, cfg.TranscriptLanguageName), log, nil, tagger.Options{
		DefaultAPIKey: cfg.GeminiAPIKey,
		MaxTags:       cfg.MaxTags,
		LanguageName:  cfg.TranscriptLanguageName,
		Timeout:       cfg.UpstreamTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := svc.Extract(ctx, tagger.ExtractRequest{
		URL:            rawURL,
		MaxTags:        *maxTags,
		TranscriptOnly: *transcriptOnly,
		APIKey:         *key,
	})
	if err != nil {
		log.Debug("extract failed", "stage", tagger.StageOf(err), "error", err)
		fmt.Fprintln(stderr, tagger.Message(err, svc.LanguageName()))
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.Encode(res)
		return 0
	}
	printResult(stdout, res, svc.LanguageName())
	return 0
}

func printResult(w io.Writer, res *tagger.ExtractResult, languageName string) {
	fmt.Fprintf(w, "Video: %s\n\n", res.VideoID)
	fmt.Fprintf(w, "%s Transcript (%s):\n%s\n", languageName, res.Kind, res.Transcript)
	if len(res.Tags) > 0 {
		fmt.Fprintf(w, "\nGenerated Tags:\n%s\n", strings.Join(res.Tags, ", "))
	}
}
