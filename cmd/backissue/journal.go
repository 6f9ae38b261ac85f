// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/backissue/pkg/types"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage journals (create, list)",
	Long: `Journal manages the journals articles are imported into. Creating a
journal also seeds its editor and author groups and the file genres
imported assets are classified under.`,
}

// --- create subcommand ---

var journalCreateCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Create a journal with its default groups and genres",
	Long: `Create adds a journal. Flags cover the common case of a single primary
locale; a YAML seed file (--file) can declare localized names and the full
supported locale set. A path given as the argument overrides the file's.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJournalCreate,
}

func runJournalCreate(cmd *cobra.Command, args []string) error {
	j, err := journalFromInputs(cmd, args)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.CreateJournal(cmd.Context(), j); err != nil {
		return err
	}
	fmt.Printf("Created journal %s (id %d)\n", j.Path, j.ID)
	return nil
}

func journalFromInputs(cmd *cobra.Command, args []string) (*types.Journal, error) {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading journal file: %w", err)
		}
		j := &types.Journal{Enabled: true}
		if err := yaml.Unmarshal(data, j); err != nil {
			return nil, fmt.Errorf("parsing journal file: %w", err)
		}
		if len(args) == 1 {
			j.Path = args[0]
		}
		if j.Path == "" {
			return nil, errors.New("journal file names no path")
		}
		if j.PrimaryLocale == "" {
			j.PrimaryLocale = "en_US"
		}
		if !contains(j.SupportedLocales, j.PrimaryLocale) {
			j.SupportedLocales = append([]string{j.PrimaryLocale}, j.SupportedLocales...)
		}
		return j, nil
	}

	if len(args) == 0 {
		return nil, errors.New("a journal path argument is required without --file")
	}
	name, _ := cmd.Flags().GetString("name")
	primary, _ := cmd.Flags().GetString("locale")
	supported, _ := cmd.Flags().GetStringSlice("supported-locales")

	if name == "" {
		name = args[0]
	}
	if !contains(supported, primary) {
		supported = append([]string{primary}, supported...)
	}
	return &types.Journal{
		Path:             args[0],
		PrimaryLocale:    primary,
		SupportedLocales: supported,
		Names:            map[string]string{primary: name},
		Enabled:          true,
	}, nil
}

func contains(vals []string, v string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}

// --- list subcommand ---

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journals",
	RunE:  runJournalList,
}

func runJournalList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	journals, err := s.Journals(cmd.Context())
	if err != nil {
		return err
	}
	if len(journals) == 0 {
		fmt.Println("No journals found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-16s  %-8s  %-24s  %s\n",
		"ID", "Path", "Locale", "Name", "Supported")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, j := range journals {
		fmt.Fprintf(os.Stdout, "%-6d  %-16s  %-8s  %-24s  %s\n",
			j.ID, j.Path, j.PrimaryLocale, j.Name(j.PrimaryLocale),
			strings.Join(j.SupportedLocales, ", "))
	}
	return nil
}

func init() {
	journalCreateCmd.Flags().String("name", "", "journal display name in the primary locale (default: the path)")
	journalCreateCmd.Flags().String("locale", "en_US", "primary locale")
	journalCreateCmd.Flags().StringSlice("supported-locales", nil, "additional locales the journal publishes in")
	journalCreateCmd.Flags().String("file", "", "YAML seed file declaring the journal (localized names, locale set)")

	journalCmd.AddCommand(journalCreateCmd)
	journalCmd.AddCommand(journalListCmd)

	rootCmd.AddCommand(journalCmd)
}
