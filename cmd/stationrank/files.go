package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/internal/config"
	"github.com/stationrank/stationrank-go/pkg/stationrank"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/output"
	"github.com/stationrank/stationrank-go/pkg/stationrank/store"
	"github.com/stationrank/stationrank-go/pkg/stationrank/telemetry"
)

var (
	filesOwner     string
	filesPretty    bool
	filesSheet     string
	filesRankFlags exportFlags
	downloadPath   string
)

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage uploaded spreadsheets",
	}
	cmd.PersistentFlags().StringVar(&filesOwner, "owner", "", "Owner namespace (default from config)")

	upload := &cobra.Command{
		Use:   "upload [input.xlsx|input.csv]",
		Short: "Store a spreadsheet and its decoded rows",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}
	upload.Flags().StringVar(&filesSheet, "sheet", "", "Worksheet to read (default: first sheet)")
	upload.Flags().BoolVar(&filesPretty, "pretty", false, "Pretty-print JSON output")

	list := &cobra.Command{
		Use:   "list",
		Short: "List uploads, newest first",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	list.Flags().BoolVar(&filesPretty, "pretty", false, "Pretty-print JSON output")

	show := &cobra.Command{
		Use:   "show [key]",
		Short: "Show an upload's metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	show.Flags().BoolVar(&filesPretty, "pretty", false, "Pretty-print JSON output")

	rank := &cobra.Command{
		Use:   "rank [key]",
		Short: "Rank the stored rows of an upload",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilesRank,
	}
	addExportFlags(rank, &filesRankFlags)

	download := &cobra.Command{
		Use:   "download [key]",
		Short: "Download the original spreadsheet of an upload",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}
	download.Flags().StringVarP(&downloadPath, "output", "o", "", "Output file path (default: original file name)")

	del := &cobra.Command{
		Use:   "delete [key]",
		Short: "Delete an upload",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	cmd.AddCommand(upload, list, show, rank, download, del)
	return cmd
}

func owner() string {
	if filesOwner != "" {
		return filesOwner
	}
	return cfg.Store.Owner
}

// openLibrary builds the upload library from config. The returned func
// releases catalog connections.
func openLibrary(ctx context.Context) (*store.Library, func(), error) {
	if !cfg.IsPersistent() {
		return nil, nil, fmt.Errorf("store backend %q keeps no uploads between runs; configure store.backend: %s", cfg.Store.Backend, config.BackendS3)
	}

	blobs, err := store.NewS3Store(ctx, cfg.Store.S3, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []store.LibraryOption{
		store.WithMetrics(telemetry.NewMetrics("upload")),
		store.WithEvents(tracker),
		store.WithLibraryLogger(logger),
	}
	closeFn := func() {}

	if cfg.Store.Catalog.Driver == config.CatalogPostgres {
		catalog, err := store.NewPGCatalog(ctx, cfg.Store.Catalog.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := catalog.EnsureSchema(ctx); err != nil {
			catalog.Close()
			return nil, nil, err
		}
		opts = append(opts, store.WithCatalog(catalog))
		closeFn = catalog.Close
	}

	return store.NewLibrary(blobs, opts...), closeFn, nil
}

func printJSON(v []byte) error {
	_, err := os.Stdout.Write(append(v, '\n'))
	return err
}

func runUpload(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	ctx := cmd.Context()

	if !stationrank.IsSupported(inputPath) {
		return fmt.Errorf("%w: %s", stationrank.ErrUnsupportedFormat, inputPath)
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	sheet := filesSheet
	if sheet == "" {
		sheet = cfg.Input.Sheet
	}
	records, err := stationrank.Decode(bytes.NewReader(data), filepath.Base(inputPath), stationrank.Options{Sheet: sheet, Logger: logger})
	if err != nil {
		return err
	}

	lib, closeFn, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	u, err := lib.Upload(ctx, owner(), filepath.Base(inputPath), data, records)
	if err != nil {
		return err
	}
	out, err := output.UploadsToJSON([]models.Upload{u}, filesPretty)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lib, closeFn, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	uploads, err := lib.List(ctx, owner())
	if err != nil {
		return err
	}
	out, err := output.UploadsToJSON(uploads, filesPretty)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lib, closeFn, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	u, err := lib.Get(ctx, owner(), args[0])
	if err != nil {
		return err
	}
	out, err := output.UploadsToJSON([]models.Upload{u}, filesPretty)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func runFilesRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lib, closeFn, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	u, err := lib.Get(ctx, owner(), args[0])
	if err != nil {
		return err
	}
	records, err := lib.Rows(ctx, owner(), u.Key)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics("upload")
	result := stationrank.RankRecords(records, u.OriginalName, stationrank.Options{Logger: logger, Recorder: metrics})
	tracker.TrackPrioritization(result.RowCount())

	return exportResult(result, filesRankFlags, metrics)
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lib, closeFn, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	data, u, err := lib.Download(ctx, owner(), args[0])
	if err != nil {
		return err
	}
	path := downloadPath
	if path == "" {
		path = filepath.Base(u.OriginalName)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Downloaded upload", zap.String("key", u.Key), zap.String("path", path))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lib, closeFn, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return lib.Delete(ctx, owner(), args[0])
}
