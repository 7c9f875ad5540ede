package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/mint-kitchen/internal/imagecache"
	"github.com/Lixing-Zhang/mint-kitchen/internal/storefront"
)

func menuCmd(a *app) *cobra.Command {
	var skipImages bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the menu by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var images storefront.ImagePreloader
			if !skipImages {
				images = imagecache.New(imagecache.NewHTTPLoader(a.cfg.GatewayTimeout))
			}

			view := storefront.NewMenuView(a.api, images, a.log)
			view.Load(cmd.Context())
			return storefront.RenderMenu(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().BoolVar(&skipImages, "no-images", false, "skip preloading dish images")

	return cmd
}

func categoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.api.FetchCategories(cmd.Context())
			if !res.OK() {
				return fmt.Errorf("failed to fetch categories: %s", res.Message())
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range res.Data.Categories {
				fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
			}
			return tw.Flush()
		},
	}
}

func itemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "item [id]",
		Short: "Show a single dish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.api.FetchItem(cmd.Context(), args[0])
			if !res.OK() {
				return fmt.Errorf("failed to fetch item %s: %s", args[0], res.Message())
			}

			item := res.Data
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", item.Name, item.Price)
			if item.Category != "" {
				fmt.Fprintf(out, "Category: %s\n", item.Category)
			}
			if item.Description != "" {
				fmt.Fprintln(out, item.Description)
			}
			return nil
		},
	}
}
