/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ademuri/music-analysis/internal/analysis"
	"github.com/ademuri/music-analysis/internal/dataset"
	"github.com/ademuri/music-analysis/internal/logger"
	"github.com/ademuri/music-analysis/internal/store"
)

type JobConfig struct {
	ListensPath string
	SongsPath   string
	Database    string
	Format      string
	Period      analysis.Period
	Preview     PreviewConfig
	Log         logger.Config
}

func jobConfigFromViper() (JobConfig, error) {
	period, err := parsePeriod(viper.GetStringSlice("period"))
	if err != nil {
		return JobConfig{}, err
	}
	return JobConfig{
		ListensPath: viper.GetString("listens"),
		SongsPath:   viper.GetString("songs"),
		Database:    viper.GetString("database"),
		Format:      viper.GetString("format"),
		Period:      period,
		Preview: PreviewConfig{
			NumToReturn: viper.GetInt("preview-rows"),
			Truncate:    viper.GetBool("truncate"),
		},
		Log: logger.Config{
			Level:  viper.GetString("log-level"),
			Format: viper.GetString("log-format"),
		},
	}, nil
}

// runAnalysis is the whole job: ingest both inputs, join them inside one
// engine session, run the pipelines and print the results to out.
func runAnalysis(ctx context.Context, out io.Writer, cfg JobConfig) error {
	if err := logger.Setup(os.Stderr, cfg.Log); err != nil {
		return err
	}
	log := slog.Default().With("run_id", uuid.NewString())
	began := time.Now()

	session, err := store.New(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.WithError(log, err).Warn("closing session")
		}
	}()
	log.Debug("session opened", "database", cfg.Database)

	listens, songs, err := readInputs(log, cfg.ListensPath, cfg.SongsPath)
	if err != nil {
		return err
	}

	joined, err := joinInputs(ctx, session, listens, songs)
	if err != nil {
		return err
	}
	log.Info("joined inputs", "table", joined.Name, "rows", joined.Len(), "columns", len(joined.Columns))

	events, err := analysis.EventsFromTable(joined)
	if err != nil {
		return err
	}
	if !cfg.Period.IsZero() {
		events = analysis.FilterPeriod(events, cfg.Period)
		log.Info("filtered events", "from", cfg.Period.Start, "to", cfg.Period.End, "rows", len(events))
	}

	results, err := analysis.Run(ctx, events)
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}

	if err := printResults(out, results, cfg.Format, cfg.Preview); err != nil {
		return err
	}
	log.Info("analysis complete", "elapsed", time.Since(began))
	return nil
}

func readInputs(log *slog.Logger, listensPath, songsPath string) (listens, songs *dataset.Table, err error) {
	var g errgroup.Group
	g.Go(func() error {
		t, err := dataset.ReadFile(listensPath)
		if err != nil {
			return err
		}
		log.Info("read input", "table", t.Name, "rows", t.Len(), "columns", len(t.Columns))
		listens = t
		return nil
	})
	g.Go(func() error {
		t, err := dataset.ReadFile(songsPath)
		if err != nil {
			return err
		}
		log.Info("read input", "table", t.Name, "rows", t.Len(), "columns", len(t.Columns))
		songs = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return listens, songs, nil
}

// joinInputs loads both tables into the session and joins them on song_id.
// The key is compared as text since the two files may infer it differently.
func joinInputs(ctx context.Context, session *store.Store, listens, songs *dataset.Table) (*dataset.Table, error) {
	listens, err := listens.WithTimestamp(analysis.TimestampColumn)
	if err != nil {
		return nil, err
	}
	if listens, err = listens.WithText(analysis.SongIDColumn); err != nil {
		return nil, err
	}
	if songs, err = songs.WithText(analysis.SongIDColumn); err != nil {
		return nil, err
	}
	if songs.Name == listens.Name {
		songs.Name += "_2"
	}

	for _, t := range []*dataset.Table{listens, songs} {
		if err := session.Load(ctx, t); err != nil {
			return nil, err
		}
	}
	return session.Join(ctx, listens, songs, analysis.SongIDColumn)
}
