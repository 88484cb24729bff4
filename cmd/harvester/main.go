package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/Adda-Baaj/podcast-harvester/internal/config"
	"github.com/Adda-Baaj/podcast-harvester/internal/crawler"
	"github.com/Adda-Baaj/podcast-harvester/internal/logger"
	"github.com/Adda-Baaj/podcast-harvester/internal/report"
	"github.com/Adda-Baaj/podcast-harvester/internal/sources"
	"github.com/Adda-Baaj/podcast-harvester/pkg/feeds"
	"github.com/Adda-Baaj/podcast-harvester/pkg/httpclient"
	"github.com/Adda-Baaj/podcast-harvester/pkg/publishers"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run returns an error only for failures that abort the whole harvest.
// Per-feed failures are reported inline and leave the exit status at zero.
func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	urls, err := sources.LoadFile(cfg.URLsFile)
	if err != nil {
		return err
	}

	text := report.NewTextReporter(os.Stdout)
	reporters := []crawler.Reporter{text}

	if cfg.PublishersFile != "" {
		pubCfgs, err := publishers.LoadConfigs(cfg.PublishersFile)
		if err != nil {
			return err
		}
		pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), pubCfgs, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := publishers.CloseAll(pubs); err != nil {
				log.WarnObj("closing publishers failed", "publisher_close_error", map[string]any{
					"error": err.Error(),
				})
			}
		}()
		reporters = append(reporters, report.NewPublishReporter(pubs, cfg.PublishTimeout, log))
	}

	client := httpclient.New(httpclient.Options{
		Timeout:             cfg.HTTP.Timeout,
		ConnectTimeout:      cfg.HTTP.ConnectTimeout,
		UserAgent:           cfg.HTTP.UserAgent,
		MaxIdleConnsPerHost: cfg.HTTP.MaxIdleConnsPerHost,
	})
	fetcher := feeds.NewFetcher(client, map[string]string{
		"Accept": "application/rss+xml, application/xml;q=0.9, */*;q=0.8",
	})

	c := crawler.New(fetcher, feeds.NewParser(), log)
	sum := c.Run(ctx, urls, reporters...)

	return text.Summary(sum)
}
