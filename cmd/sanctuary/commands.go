package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sanctuary/internal/blob"
	"sanctuary/internal/report"
)

func runCmd(a *app) *cobra.Command {
	var metrics bool
	cmd := &cobra.Command{
		Use:   "run [manifest]",
		Short: "Apply a manifest (the built-in demo when omitted) and print the census",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, out, err := a.replay(ctx, args, a.stdout)
			if err != nil {
				return err
			}
			defer func() { _ = s.close(ctx) }()

			for _, p := range out.Placements {
				fmt.Fprintf(a.stdout, "Moved %s to %s\n", p.Animal, p.Enclosure)
			}
			for _, v := range out.Warnings {
				fmt.Fprintf(a.stdout, "Warning: %s: %s\n", v.Rule, v.Message)
			}
			fmt.Fprintln(a.stdout)
			if err := report.RenderText(a.stdout, report.Snapshot(s.svc)); err != nil {
				return err
			}
			if metrics {
				fmt.Fprintln(a.stdout)
				return s.writeMetrics(a.stdout)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&metrics, "metrics", false, "print operation metrics after the census")
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "report [manifest]",
		Short: "Print the census as json, csv or text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, _, err := a.replay(ctx, args, nil)
			if err != nil {
				return err
			}
			defer func() { _ = s.close(ctx) }()
			return report.Render(a.stdout, report.Snapshot(s.svc), f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: json, csv, text")
	return cmd
}

func shoppingListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shopping-list [manifest]",
		Short: "Print the daily food shopping list in grams",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, err := a.replay(ctx, args, nil)
			if err != nil {
				return err
			}
			defer func() { _ = s.close(ctx) }()

			list := s.svc.ShoppingList()
			for _, food := range list.Foods() {
				fmt.Fprintf(a.stdout, "%-10s %6d g\n", food, list[food])
			}
			fmt.Fprintf(a.stdout, "%-10s %6d g\n", "Total", list.Total())
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var formats []string
	cmd := &cobra.Command{
		Use:   "export [manifest]",
		Short: "Publish the census to the configured blob store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fs []report.Format
			for _, raw := range formats {
				f, err := report.ParseFormat(raw)
				if err != nil {
					return err
				}
				fs = append(fs, f)
			}
			ctx := cmd.Context()
			store, err := blob.Open(ctx, a.cfg.BlobStore())
			if err != nil {
				return fmt.Errorf("open blob store: %w", err)
			}
			s, _, err := a.replay(ctx, args, nil)
			if err != nil {
				return err
			}
			defer func() { _ = s.close(ctx) }()

			infos, err := report.NewPublisher(store, a.cfg.Report.Prefix).Publish(ctx, report.Snapshot(s.svc), fs...)
			for _, info := range infos {
				fmt.Fprintf(a.stdout, "%s\t%d bytes\n", info.Key, info.Size)
			}
			if err != nil {
				return err
			}
			s.logger.Info("census exported", "driver", store.Driver(), "artifacts", len(infos))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&formats, "format", nil, "formats to publish (default json,csv,text)")
	return cmd
}
