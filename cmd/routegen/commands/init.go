package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/routegen/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a routegen.yaml in the project directory",
	Long: `Create a routegen.yaml with the pages directory, import prefix and
output file of the project. Prompts for each value unless --yes is given.

Examples:
  routegen init
  routegen init --yes
  routegen init --yes --force`,
	Run: runInit,
}

var (
	initYes   bool
	initForce bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept the defaults without prompting")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing routegen.yaml")
}

func runInit(cmd *cobra.Command, args []string) {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		fail(err)
	}
	path := filepath.Join(dir, config.FileName+".yaml")

	if !jsonOutput {
		fmt.Fprintf(stdout, "\n  %s Init\n\n", cyan("routegen"))
	}

	cfg := config.Default()

	if !initYes && !jsonOutput {
		if err := promptConfig(cfg); err != nil {
			fmt.Fprintf(stdout, "  %s Cancelled\n", yellow("!"))
			return
		}
	}

	if err := writeInitConfig(path, cfg, initForce); err != nil {
		fail(err)
	}

	next := []string{
		"Add pages to " + cfg.Pages,
		"Run: routegen generate",
		"Import routes from " + strings.TrimSuffix(cfg.OutFile, filepath.Ext(cfg.OutFile)),
	}

	if jsonOutput {
		printSuccess(InitOutput{
			ConfigFile: path,
			Pages:      cfg.Pages,
			OutFile:    cfg.OutFile,
			NextSteps:  next,
		})
		return
	}

	fmt.Fprintf(stdout, "  %s Created %s\n\n", green("✓"), relPath(path))
	fmt.Fprintf(stdout, "  Next steps:\n")
	for i, step := range next {
		fmt.Fprintf(stdout, "    %d. %s\n", i+1, step)
	}
	fmt.Fprintln(stdout)
}

func promptConfig(cfg *config.Config) error {
	notEmpty := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("must not be empty")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pages directory").
				Description("Directory holding your page components").
				Value(&cfg.Pages).
				Validate(notEmpty),
			huh.NewInput().
				Title("Import prefix").
				Description("Prefix of component imports in the generated module").
				Value(&cfg.ImportPrefix),
			huh.NewInput().
				Title("Output file").
				Description("Where the route module is written").
				Value(&cfg.OutFile).
				Validate(notEmpty),
			huh.NewConfirm().
				Title("Lazy-load pages?").
				Description("Emit dynamic import() calls so each page gets its own chunk").
				Value(&cfg.DynamicImport),
			huh.NewConfirm().
				Title("Nested routes?").
				Description("Generate relative top-level paths for mounting under a parent route").
				Value(&cfg.Nested),
		),
	)
	return form.Run()
}

// writeInitConfig writes cfg to path, refusing to replace an existing file
// unless force is set.
func writeInitConfig(path string, cfg *config.Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", filepath.Base(path))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.Write(path)
}
