package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/glowmart/glowmart/config"
	"github.com/glowmart/glowmart/internal/server"
	"github.com/glowmart/glowmart/pkg/database"
)

// glowmart serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// glowmart route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := database.Open(ctx, config.MongoURI(), config.MongoDatabase())
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		routes := server.NewRouter(store).Routes()
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path == routes[j].Path {
				return routes[i].Method < routes[j].Method
			}
			return routes[i].Path < routes[j].Path
		})

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
		for _, rt := range routes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Method, rt.Path, rt.Name)
		}
		return tw.Flush()
	},
}
