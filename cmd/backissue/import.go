package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/backissue/internal/importer"
	"github.com/pdiddy/backissue/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import article metadata from a volume/issue/article tree",
	Long: `Import walks a back-issue tree (volume folders containing issue folders
containing article folders), parses each article's XML metadata document,
and creates its publication records. Articles whose public identifiers are
already known to the journal are skipped; a failed article is rolled back
and never aborts the batch.

Settings come from flags, a YAML job file (--job), the BACKISSUE_*
environment, or backissue.yaml, in that order of precedence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("journal", "", "target journal path")
	importCmd.Flags().String("user", "", "acting user's username")
	importCmd.Flags().String("editor", "", "username of the editor assigned to imported articles")
	importCmd.Flags().String("email", "", "fallback contact address for synthesized authors")
	importCmd.Flags().String("section", "", "default section title for articles that name none")
	importCmd.Flags().StringSlice("formats", nil, "parser variants to try, in preference order (default: all registered)")
	importCmd.Flags().StringSlice("image-extensions", nil, "extensions treated as images, in cover probe order")
	importCmd.Flags().String("cover-basename", "", "issue cover file's base name (default \"cover\")")
	importCmd.Flags().String("job", "", "YAML job file with import settings; flags take precedence")
	importCmd.Flags().String("save-job", "", "validate the resolved settings, write them to a YAML job file, and exit")

	rootCmd.AddCommand(importCmd)
}

// resolveJob merges the import settings: explicitly set flags win, then the
// job file, then viper's environment and config file values.
func resolveJob(cmd *cobra.Command, args []string) (*types.ImportJob, error) {
	job := &types.ImportJob{}
	if path, _ := cmd.Flags().GetString("job"); path != "" {
		loaded, err := importer.ReadJobFile(path)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	f := cmd.Flags()
	fields := []struct {
		flag string
		dst  *string
	}{
		{"journal", &job.Journal},
		{"user", &job.User},
		{"editor", &job.Editor},
		{"email", &job.Email},
		{"section", &job.Section},
		{"cover-basename", &job.CoverBasename},
	}
	for _, s := range fields {
		if f.Changed(s.flag) {
			*s.dst, _ = f.GetString(s.flag)
		} else if *s.dst == "" {
			*s.dst = viper.GetString(strings.ReplaceAll(s.flag, "-", "_"))
		}
	}
	if f.Changed("formats") {
		job.Formats, _ = f.GetStringSlice("formats")
	} else if len(job.Formats) == 0 {
		job.Formats = viper.GetStringSlice("formats")
	}
	if f.Changed("image-extensions") {
		job.ImageExtensions, _ = f.GetStringSlice("image-extensions")
	} else if len(job.ImageExtensions) == 0 {
		job.ImageExtensions = viper.GetStringSlice("image_extensions")
	}

	if len(args) == 1 {
		job.Path = args[0]
	} else if job.Path == "" {
		job.Path = viper.GetString("path")
	}
	return job, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	job, err := resolveJob(cmd, args)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	cfg, err := importer.NewConfiguration(ctx, s, job)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("save-job"); out != "" {
		if err := importer.WriteJobFile(out, job); err != nil {
			return err
		}
		fmt.Printf("Saved job to %s\n", out)
		return nil
	}

	it, err := importer.NewIterator(cfg.ImportPath)
	if err != nil {
		return err
	}

	imp := importer.New(cfg, s, logger)
	result, err := imp.ImportBatch(ctx, it, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d article(s) failed import", result.Failed)
	}
	return nil
}
