package main

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vermy/vermy/internal/app"
	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

type purger interface {
	Purge(ctx context.Context, id uuid.UUID) error
}

func purgers(repos *app.Repositories) map[string]purger {
	return map[string]purger{
		domain.CollectionProperties:         repos.Property,
		domain.CollectionTenants:            repos.Tenant,
		domain.CollectionLeases:             repos.Lease,
		domain.CollectionBookings:           repos.Booking,
		domain.CollectionUtilityStatements:  repos.UtilityStatement,
		domain.CollectionMaintenanceTickets: repos.MaintenanceTicket,
		domain.CollectionDunningNotices:     repos.DunningNotice,
		domain.CollectionDocuments:          repos.Document,
	}
}

func newPurgeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge <collection> <id>",
		Short: "Permanently remove a single record",
		Long: `Permanently removes a record, bypassing soft delete.

Records still referenced by other rows cannot be purged; purge the
referencing rows first. Collections: ` + strings.Join(domain.Collections, ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[1], err)
			}

			if !yes {
				ok, err := confirm(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(),
					fmt.Sprintf("Permanently remove %s %s?", args[0], id))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("purge aborted")
				}
			}

			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := purgeRecord(cmd.Context(), purgers(app.NewRepositories(db)), args[0], id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %s %s\n", args[0], id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func purgeRecord(ctx context.Context, stores map[string]purger, collection string, id uuid.UUID) error {
	store, ok := stores[strings.ReplaceAll(collection, "-", "_")]
	if !ok {
		names := make([]string, 0, len(stores))
		for name := range stores {
			names = append(names, name)
		}
		sort.Strings(names)
		return apperrors.BadRequest(fmt.Sprintf("unknown collection %q (want one of %s)",
			collection, strings.Join(names, ", ")))
	}
	return store.Purge(ctx, id)
}
