package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/cardscan/internal/model"
)

var (
	batchLimit int
	batchMulti bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract contacts from every card image in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		files, err := listImages(args[0])
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(files) > batchLimit {
			files = files[:batchLimit]
		}

		env, err := initExtractor(cfg, "extract")
		if err != nil {
			return err
		}
		defer env.Close()

		fn := func(ctx context.Context, img model.Image) (any, error) {
			return env.Extractor.ExtractSingle(ctx, img)
		}
		if batchMulti {
			fn = func(ctx context.Context, img model.Image) (any, error) {
				return env.Extractor.ExtractMulti(ctx, img)
			}
		}

		items, err := processBatch(ctx, files, cfg.Batch.Concurrency, fn)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, items)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of images to process (0 = all)")
	batchCmd.Flags().BoolVar(&batchMulti, "multi", false, "extract every contact from each image")
	rootCmd.AddCommand(batchCmd)
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// listImages returns the image files directly under dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// batchItem is the outcome for one file of a batch.
type batchItem struct {
	File   string `json:"file" yaml:"file"`
	Result any    `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// extractFunc runs one extraction on a decoded image.
type extractFunc func(ctx context.Context, img model.Image) (any, error)

// processBatch extracts every file with at most concurrency workers. A
// failing file is reported in its item and does not stop the batch; only
// cancellation does.
func processBatch(ctx context.Context, files []string, concurrency int, fn extractFunc) ([]batchItem, error) {
	items := make([]batchItem, len(files))
	if len(files) == 0 {
		zap.L().Info("no images found")
		return items, nil
	}

	zap.L().Info("processing batch",
		zap.Int("images", len(files)),
		zap.Int("concurrency", concurrency),
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	var succeeded, failed atomic.Int64

	for i, file := range files {
		items[i].File = file
		g.Go(func() error {
			log := zap.L().With(zap.String("file", file))

			res, err := extractFile(gctx, file, fn)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				items[i].Error = err.Error()
				log.Error("extraction failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			items[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return items, nil
}

func extractFile(ctx context.Context, file string, fn extractFunc) (any, error) {
	img, err := readImage(file)
	if err != nil {
		return nil, err
	}
	return fn(ctx, img)
}
