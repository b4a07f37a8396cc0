package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/models"
	"github.com/essesseff/essesseff-cli/internal/templates"
)

// TemplatesCommand returns the templates command for browsing the catalog.
func TemplatesCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "Browse global and account-scoped app templates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Only show templates for this language",
			},
		},
		// Bare "templates" lists the catalog, same as "templates list".
		Action: listTemplatesAction,
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available templates",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "Only show templates for this language",
					},
				},
				Action: listTemplatesAction,
			},
			{
				Name:      "show",
				Usage:     "Show one template descriptor",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "global",
						Aliases: []string{"g"},
						Usage:   "Look the template up in the global catalog",
					},
				},
				Action: showTemplateAction,
			},
		},
	}
}

func listTemplatesAction(c *cli.Context) error {
	container, err := newContainer(c)
	if err != nil {
		return err
	}

	return container.Invoke(func(cfg *config.Config, catalog *templates.Catalog) error {
		if err := cfg.Validate(config.OpTemplates); err != nil {
			return err
		}

		global, account, err := catalog.List(c.Context, c.String("language"))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCOPE\tNAME\tLANGUAGE\tDESCRIPTION")
		for _, t := range global {
			fmt.Fprintf(w, "global\t%s\t%s\t%s\n", t.Name, t.Language, t.Description)
		}
		for _, t := range account {
			fmt.Fprintf(w, "account\t%s\t%s\t%s\n", t.Name, t.Language, t.Description)
		}
		return w.Flush()
	})
}

func showTemplateAction(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("template name is required")
	}

	container, err := newContainer(c)
	if err != nil {
		return err
	}

	return container.Invoke(func(cfg *config.Config, catalog *templates.Catalog) error {
		if err := cfg.Validate(config.OpTemplates); err != nil {
			return err
		}

		descriptor, err := catalog.Fetch(c.Context, name, c.Bool("global"))
		if err != nil {
			return err
		}
		printDescriptor(name, descriptor)
		return nil
	})
}

func printDescriptor(name string, d *models.TemplateDescriptor) {
	fmt.Printf("Name:        %s\n", name)
	fmt.Printf("Org:         %s\n", d.OrgLogin)
	fmt.Printf("Source repo: %s\n", d.SourceRepo)
	fmt.Printf("Language:    %s\n", d.Language)
	fmt.Printf("Global:      %t\n", d.IsGlobal)
	if !d.IsGlobal {
		fmt.Printf("Replacement: %s\n", d.ReplacementString)
	}
}
