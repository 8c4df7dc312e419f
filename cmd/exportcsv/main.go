// Command exportcsv dumps the full catalog as CSV, optionally brotli
// compressed, and optionally delivers it to the partner SFTP drop.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"lecture-sync/internal/config"
	"lecture-sync/internal/domain"
	"lecture-sync/internal/export"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/sftpclient"
	"lecture-sync/internal/store"
)

func main() {
	var (
		outPath  = flag.String("out", "lectures.csv", "output path (.br is appended with -brotli)")
		compress = flag.Bool("brotli", false, "brotli-compress the output")
		upload   = flag.Bool("upload", false, "upload the generated file via SFTP")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.RequireStore(); err != nil {
		logging.Fatal().Err(err).Msg("config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	lectures := store.NewLectures(store.New(cfg.StoreURL, cfg.StoreKey))

	var rows []domain.Lecture
	for offset := 0; ; offset += store.MaxPageRows {
		page, err := lectures.Page(ctx, offset, store.MaxPageRows, "*")
		if err != nil {
			logging.Fatal().Err(err).Msg("load rows")
		}
		rows = append(rows, page...)
		if len(page) < store.MaxPageRows {
			break
		}
	}
	logging.Info().Int("rows", len(rows)).Msg("catalog loaded")

	path := *outPath
	if *compress {
		path += ".br"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatal().Err(err).Msg("create output dir")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		logging.Fatal().Err(err).Msg("create output file")
	}
	if *compress {
		err = export.WriteLecturesCSVBrotli(f, rows)
	} else {
		err = export.WriteLecturesCSV(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logging.Fatal().Err(err).Str("path", path).Msg("write failed")
	}
	logging.Info().Str("path", path).Msg("export written")

	if !*upload {
		return
	}

	src, err := os.Open(path)
	if err != nil {
		logging.Fatal().Err(err).Msg("reopen export")
	}
	defer src.Close()

	sftpCfg := sftpclient.Config{
		Host:      cfg.SFTPHost,
		Port:      cfg.SFTPPort,
		User:      cfg.SFTPUser,
		Pass:      cfg.SFTPPass,
		RemoteDir: cfg.SFTPRemoteDir,
	}
	if err := sftpclient.Upload(ctx, sftpCfg, filepath.Base(path), src); err != nil {
		logging.Fatal().Err(err).Msg("upload failed")
	}
	logging.Info().Str("host", cfg.SFTPHost).Str("file", filepath.Base(path)).Msg("export uploaded")
}
