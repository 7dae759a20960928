package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

func newImportCommand(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a CSV file into the alternative catalog",
		Long: `Upsert every row of a CSV file into the Postgres catalog by label.
Rows already in the catalog are updated; other catalog rows are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Database.URL == "" {
				return asConfigError(errors.New("import needs database.url (TOPSIS_DATABASE_URL)"))
			}
			path := data
			if path == "" {
				path = a.cfg.Dataset.Path
			}
			ds, err := readDataset(path, a.cfg.Dataset.IDColumn, a.cfg.Criteria.Names())
			if err != nil {
				return err
			}

			db, err := store.NewPostgresStore(cmd.Context(), a.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := importDataset(cmd.Context(), db, ds)
			if err != nil {
				return err
			}
			a.logger.Info("catalog imported", "path", path, "alternatives", n)
			a.announceImport(cmd.Context(), n)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d alternatives from %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "CSV file to import (default dataset.path)")
	return cmd
}

func readDataset(path, idColumn string, columns []string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, asConfigError(err)
	}
	defer f.Close()

	ds, err := dataset.ReadCSV(f, idColumn, columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func importDataset(ctx context.Context, s store.Store, ds *dataset.Dataset) (int, error) {
	for i, alt := range ds.Alternatives {
		if err := s.UpsertAlternative(ctx, dataset.ToStore(ds, alt)); err != nil {
			return i, fmt.Errorf("upsert %q: %w", alt.Label, err)
		}
	}
	return ds.Len(), nil
}

// announceImport tells running servers to drop their cached dataset. Servers
// that miss it reload after their cache TTL.
func (a *app) announceImport(ctx context.Context, n int) {
	if a.cfg.Hermes.URL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	hc, err := hermes.NewNATSClient(ctx, a.cfg.Hermes.URL, a.logger)
	if err != nil {
		a.logger.Warn("failed to connect to hermes, catalog update not announced", "error", err)
		return
	}
	defer hc.Close()

	err = hc.Publish(hermes.SubjectCatalogUpdated, hermes.CatalogUpdatedEvent{
		Action:    hermes.CatalogActionImported,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		a.logger.Warn("failed to announce catalog import", "alternatives", n, "error", err)
	}
}
