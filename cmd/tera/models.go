package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/tera/internal/registry"
)

func modelsCmd() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "Manage the local model registry",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return listModels()
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a model directory under a name",
				ArgsUsage: "<name> <directory>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return cli.Exit("usage: tera models add <name> <directory>", 1)
					}
					mgr, err := registry.NewManager(registry.DefaultBaseDir())
					if err != nil {
						return cli.Exit(fmt.Sprintf("error: open registry: %v", err), 1)
					}
					name, dir := cmd.Args().Get(0), cmd.Args().Get(1)
					if err := mgr.Add(name, dir); err != nil {
						return cli.Exit(fmt.Sprintf("error: add model: %v", err), 1)
					}
					fmt.Printf("registered %s -> %s\n", name, dir)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List registered models",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return listModels()
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a model from the registry",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("usage: tera models remove <name>", 1)
					}
					mgr, err := registry.NewManager(registry.DefaultBaseDir())
					if err != nil {
						return cli.Exit(fmt.Sprintf("error: open registry: %v", err), 1)
					}
					name := cmd.Args().First()
					if err := mgr.Remove(name); err != nil {
						return cli.Exit(fmt.Sprintf("error: remove model: %v", err), 1)
					}
					fmt.Printf("removed %s\n", name)
					return nil
				},
			},
		},
	}
}

func listModels() error {
	mgr, err := registry.NewManager(registry.DefaultBaseDir())
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: open registry: %v", err), 1)
	}
	models, err := mgr.List()
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: list models: %v", err), 1)
	}
	if len(models) == 0 {
		fmt.Println("no models registered (use: tera models add <name> <directory>)")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tADDED")
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Path, m.AddedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
