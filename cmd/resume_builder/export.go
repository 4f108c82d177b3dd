package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/archive"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resumes"
)

var (
	exportUser    string
	exportName    string
	exportOut     string
	exportArchive bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a stored resume to PDF",
	Long:  "Renders a stored resume with headless Chrome and writes the PDF to --out. With --archive the PDF is also uploaded to the configured export bucket.",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportUser, "user", "u", "", "Account that owns the resume (required)")
	exportCmd.Flags().StringVarP(&exportName, "name", "n", "", "Resume name (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output PDF path (default <name>.pdf)")
	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "Upload the PDF to the export bucket")

	for _, name := range []string{"user", "name"} {
		if err := exportCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	var bucket *archive.Archive
	if exportArchive {
		// fail before rendering when the bucket is not configured
		if bucket, err = archive.New(ctx, archive.Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			Prefix:          cfg.Archive.Prefix,
			UsePathStyle:    cfg.Archive.UsePathStyle,
		}); err != nil {
			return err
		}
	}

	st, closeFn, err := openMigrated(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := resumes.NewService(st).Get(ctx, exportUser, exportName)
	if err != nil {
		return err
	}

	renderer := rendering.NewPDFRenderer(cfg.Render.ChromePath, cfg.Render.Timeout, logger)
	pdf, err := renderer.ExportPDF(ctx, rec.Document)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = exportName + ".pdf"
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Wrote %s (%d bytes)", out, len(pdf))))

	if bucket != nil {
		key, err := bucket.Upload(ctx, exportUser, exportName, pdf)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Archived as "+key))
	}
	return nil
}
