package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/hospital-benchmark-tool/config"
	"github.com/ravisuresh229/hospital-benchmark-tool/source"
)

func (a *app) downloadCommand() *cobra.Command {
	var (
		dir         string
		force       bool
		hcahpsURL   string
		hospitalURL string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the HCAHPS and hospital information CSVs",
		Long: `Download both sources into --dir under their default file names so later
commands can read them without network access. Existing files are kept
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			var downloaded, skipped int
			for _, f := range []struct{ url, name string }{
				{hcahpsURL, config.DefaultHCAHPS},
				{hospitalURL, config.DefaultHospitalInfo},
			} {
				outPath := filepath.Join(dir, f.name)
				if _, err := os.Stat(outPath); err == nil && !force {
					logger.Info("skip, already exists", "file", outPath)
					skipped++
					continue
				}
				p := newProgress(logger)
				n, err := downloadFile(ctx, a.client, f.url, outPath)
				if err != nil {
					return fmt.Errorf("download %s: %w", f.name, err)
				}
				p.done(fmt.Sprintf("Downloaded %s (%d bytes)", f.name, n))
				downloaded++
			}
			printSuccess(cmd.OutOrStdout(), "Done: %d downloaded, %d skipped", downloaded, skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().StringVar(&hcahpsURL, "hcahps-url", config.RemoteHCAHPS, "HCAHPS survey CSV URL")
	cmd.Flags().StringVar(&hospitalURL, "hospital-info-url", config.RemoteHospitalInfo, "hospital information CSV URL")
	return cmd
}

// downloadFile copies loc to dest through a temp file in the same
// directory, so an interrupted download never leaves a truncated CSV.
func downloadFile(ctx context.Context, client *http.Client, loc, dest string) (int64, error) {
	rc, err := source.Open(ctx, client, loc)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".hcbench-download-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, rc)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return n, os.Rename(tmp.Name(), dest)
}
