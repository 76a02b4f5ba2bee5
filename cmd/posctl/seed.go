package main

import (
	"fmt"

	"github.com/saadmalik-333/business-insight-pos/internal/config"
	"github.com/saadmalik-333/business-insight-pos/internal/infra"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"
	"github.com/saadmalik-333/business-insight-pos/internal/seed"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create or refresh the demo catalog and demo profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := infra.NewDatabase(cfg.DatabaseURL, false)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}

			res, err := seed.Run(cmd.Context(),
				repository.NewCategoryRepository(db),
				repository.NewProductRepository(db),
				repository.NewProfileRepository(db),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded %d categories and %d products.\n", res.Categories, res.Products)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Profile ID", "Email", "Role"})
			for _, p := range res.Profiles {
				t.AppendRow(table.Row{p.ID, p.Email, p.Role})
			}
			t.Render()
			fmt.Fprintln(out, "Mint a token with: posctl token --profile <id>")
			return nil
		},
	}
}
