package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cardscan/internal/model"
)

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract one contact from a business card image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		img, err := readImage(args[0])
		if err != nil {
			return err
		}

		env, err := initExtractor(cfg, "extract")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Extractor.ExtractSingle(ctx, img)
		if err != nil {
			return eris.Wrap(err, "extract")
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, res)
	},
}

var multiCmd = &cobra.Command{
	Use:   "multi <image>",
	Short: "Extract every contact from an image holding several cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		img, err := readImage(args[0])
		if err != nil {
			return err
		}

		env, err := initExtractor(cfg, "extract")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Extractor.ExtractMulti(ctx, img)
		if err != nil {
			return eris.Wrap(err, "extract multi")
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, res)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(multiCmd)
}

// readImage loads and sniffs an image file.
func readImage(path string) (model.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Image{}, eris.Wrapf(err, "read image %s", path)
	}
	img, err := model.NewImage(data)
	if err != nil {
		return model.Image{}, eris.Wrapf(err, "image %s", path)
	}
	return img, nil
}
