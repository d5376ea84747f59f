package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"example.com/salesvault/internal/dataset"
	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/projection"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vaultctl",
		Short:        "Inspect salesvault datasets and dashboards offline",
		SilenceUsage: true,
	}
	root.AddCommand(dashboardCmd(), datasetCmd())
	return root
}

func dashboardCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard snapshot for a dataset with an empty activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dataset.Load(path)
			if err != nil {
				return err
			}
			snapshot := projection.NewProjector(data).Snapshot(domain.ActivityEntry{})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snapshot)
		},
	}
	cmd.Flags().StringVar(&path, "dataset", "", "dataset YAML file (default: embedded dataset)")
	return cmd
}

func datasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Dataset utilities",
	}
	cmd.AddCommand(validateCmd())
	return cmd
}

func validateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse a dataset file and report what it contains",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dataset.Load(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			mix := projection.SourceMix(data.Records)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", path)
			fmt.Fprintf(out, "records: %d\n", len(data.Records))
			for _, source := range domain.Sources {
				fmt.Fprintf(out, "  %s: %d\n", source, mix[source])
			}
			if data.Funnel == nil {
				fmt.Fprintln(out, "funnel: derived from records")
			} else {
				fmt.Fprintf(out, "funnel: %d stages\n", len(data.Funnel))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "dataset", "", "dataset YAML file")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}
