package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/service"
)

// bundleExporter and bundleImporter are the parts of the backup service
// the commands use
type bundleExporter interface {
	Export(ctx context.Context) (*domain.BackupBundle, error)
}

type bundleImporter interface {
	Import(ctx context.Context, bundle *domain.BackupBundle) (*domain.ImportResult, error)
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the complete dataset",
	}
	cmd.AddCommand(newBackupExportCmd())
	cmd.AddCommand(newBackupImportCmd())
	return cmd
}

func newBackupExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup bundle to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, closeAll, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			bundle, err := exportBundle(cmd.Context(), svcs.Backup, w)
			if err != nil {
				return err
			}
			if w != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %s to %s\n", summarize(bundle.Data.Counts()), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, - for stdout")
	return cmd
}

func newBackupImportCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of a backup bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(),
					"Importing replaces ALL existing data. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("import aborted")
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			svcs, closeAll, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			result, err := importBundle(cmd.Context(), svcs.Backup, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", summarize(result.Counts))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func exportBundle(ctx context.Context, backups bundleExporter, w io.Writer) (*domain.BackupBundle, error) {
	bundle, err := backups.Export(ctx)
	if err != nil {
		return nil, err
	}
	data, err := service.EncodeBundle(bundle)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	return bundle, nil
}

func importBundle(ctx context.Context, backups bundleImporter, r io.Reader) (*domain.ImportResult, error) {
	bundle, err := service.DecodeBundle(r)
	if err != nil {
		return nil, err
	}
	return backups.Import(ctx, bundle)
}

// summarize renders counts as "3 leases, 2 properties" in name order
func summarize(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", counts[name], name))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
