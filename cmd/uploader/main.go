package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fhuszti/athlete-portfolio-go/internal/client"
	"github.com/fhuszti/athlete-portfolio-go/internal/config"
	"github.com/fhuszti/athlete-portfolio-go/internal/geocoding"
	"github.com/fhuszti/athlete-portfolio-go/internal/imaging"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/server"
)

func main() {
	title := flag.String("title", "", "media title (defaults to the file name)")
	description := flag.String("description", "", "media description")
	location := flag.String("location", "", "place name, looked up from GPS data when empty")
	category := flag.String("category", string(model.CategoryTraining), "competitions|training|events")
	date := flag.String("date", "", "YYYY-MM-DD, read from EXIF or set to today when empty")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadUploader()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Setup("uploader", logger.OptionsFromEnv("text"))

	cat := model.Category(*category)
	if !cat.Valid() {
		logger.Errorf(ctx, "❌  Unknown category %q", *category)
		os.Exit(2)
	}

	enc, err := imaging.EncoderFor(cfg.ImageFormat)
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}
	pipeline := imaging.NewPipeline(
		geocoding.NewClient(cfg.GeocoderURL, cfg.GeocoderLanguage, ""),
		imaging.NewCommandConverter(cfg.HEICCommand),
		imaging.NewResizer(enc),
	)

	up := client.NewUploader(cfg.APIURL, pipeline, printProgress)
	if _, err := up.Login(ctx, server.LoginPath(cfg.AdminURLSecret), cfg.Email, cfg.Password); err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := uploadOne(ctx, up, path, client.Details{
			Title:       *title,
			Description: *description,
			Location:    *location,
			Category:    cat,
			Date:        *date,
		}); err != nil {
			logger.Errorf(ctx, "❌  %s: %v", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func uploadOne(ctx context.Context, up *client.Uploader, path string, d client.Details) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	if d.Title == "" {
		d.Title = name
	}

	res, err := up.Upload(ctx, client.LocalFile{Name: name, Data: data}, d)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	p := res.Prepared
	fmt.Printf("%s -> %s (%d -> %d bytes, converted=%t, resized=%t, date=%s, location=%q)\n",
		name, res.Media.URL, p.OriginalSize, p.FinalSize, p.Converted, p.Resized, res.Media.Date, res.Media.Location)
	return nil
}

func printProgress(sent, total int64) {
	if total <= 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\r  %3d%%", sent*100/total)
}
