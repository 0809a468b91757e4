package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/artifact"
	"github.com/v0xg/pageobj/internal/config"
	"github.com/v0xg/pageobj/internal/driver"
	"github.com/v0xg/pageobj/internal/driver/roddriver"
	"github.com/v0xg/pageobj/internal/page"
	"github.com/v0xg/pageobj/internal/scaffold"
	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/specs"
	"github.com/v0xg/pageobj/internal/suite"
	"github.com/v0xg/pageobj/internal/tags"
)

func specEnv(cfg *config.Config) specs.Env {
	return specs.Env{
		Credentials: suite.Credentials{Username: cfg.Auth.Username, Password: cfg.Auth.Password},
		StateFile:   cfg.Auth.StateFile,
		Timeout:     cfg.Timeouts.Visibility,
	}
}

func newRunCmd() *cobra.Command {
	var (
		tagFilter   []string
		grep        string
		noArtifacts bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the authentication setup and the selected cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			cases := specs.All(specEnv(cfg)).Cases(suite.Filter{Tags: tagFilter, Grep: grep})
			if len(cases) == 0 {
				return fmt.Errorf("no case matches tags %v and %q", tagFilter, grep)
			}
			return runCases(cmd.Context(), cfg, logger, cases, !noArtifacts)
		},
	}
	cmd.Flags().StringSliceVarP(&tagFilter, "tag", "t", nil, "Only run cases carrying every tag (e.g. @smoke)")
	cmd.Flags().StringVarP(&grep, "grep", "g", "", "Only run cases whose name contains this text")
	cmd.Flags().BoolVar(&noArtifacts, "no-artifacts", false, "Do not save screenshots of failed cases")
	return cmd
}

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Sign in and save the session for later runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Auth.HasCredentials() {
				return fmt.Errorf("%w: set USER_NAME and PASSWORD", suite.ErrNoCredentials)
			}
			cases := specs.All(specEnv(cfg)).Cases(suite.Filter{SetupOnly: true})
			if err := runCases(cmd.Context(), cfg, logger, cases, true); err != nil {
				return err
			}
			fmt.Printf("✓ Session saved to %s\n", cfg.Auth.StateFile)
			return nil
		},
	}
}

func runCases(ctx context.Context, cfg *config.Config, logger *zap.Logger, cases []suite.Case, artifacts bool) error {
	fmt.Printf("→ Launching %s browser... ", cfg.Driver)
	sess, err := driver.Open(ctx, cfg, logger, false)
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("launch failed: %w", err)
	}
	defer sess.Close()
	fmt.Println("done")

	app := screens.New(sess, cfg.BaseURL,
		screens.WithLogger(logger.Named("screens")),
		screens.WithTimeout(cfg.Timeouts.Visibility))

	opts := []suite.RunnerOption{
		suite.WithLogger(logger.Named("runner")),
		suite.WithCaseTimeout(cfg.Timeouts.Case),
		suite.OnResult(printResult),
	}
	if artifacts {
		opts = append(opts, suite.WithArtifacts(artifact.New(afero.NewOsFs(), artifact.Options{
			Dir:      cfg.Artifacts.Dir,
			MaxWidth: cfg.Artifacts.MaxWidth,
			Logger:   logger.Named("artifact"),
		})))
	}

	fmt.Printf("→ Running %d cases\n", len(cases))
	report := suite.NewRunner(opts...).Run(ctx, app, cases)

	fmt.Printf("%d passed, %d failed, %d skipped in %s (run %s)\n",
		report.Passed(), report.Failed(), report.Skipped(),
		report.Elapsed.Round(time.Millisecond), report.RunID)
	if !report.OK() {
		return fmt.Errorf("%d of %d cases did not pass", report.Failed()+report.Skipped(), len(report.Results))
	}
	return nil
}

func printResult(res suite.Result) {
	switch res.Status {
	case suite.Passed:
		fmt.Printf("  ✓ %s (%s)\n", res.Case.Name, res.Duration.Round(time.Millisecond))
	case suite.Failed:
		fmt.Printf("  ✗ %s: %v\n", res.Case.Name, res.Err)
		if res.Artifact != "" {
			fmt.Printf("    screenshot: %s\n", res.Artifact)
		}
	default:
		fmt.Printf("  - %s (skipped: %v)\n", res.Case.Name, res.Err)
	}
}

func newListCmd() *cobra.Command {
	var tagFilter []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered cases and their tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, c := range specs.All(specEnv(cfg)).Cases(suite.Filter{Tags: tagFilter}) {
				kind := "case"
				if c.Setup {
					kind = "setup"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, kind, strings.Join(c.Tags, " "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringSliceVarP(&tagFilter, "tag", "t", nil, "Only list cases carrying every tag")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var noState bool
	cmd := &cobra.Command{
		Use:   "check <screen> [path...]",
		Short: "Open one screen and report which on-load locators are visible",
		Long: fmt.Sprintf(`check opens a screen, waits for it to load and prints the visibility of
each locator it expects. The saved session is reused unless --no-state is set.

Screens: %s`, strings.Join(screens.ScreenNames(), ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			fmt.Printf("→ Launching %s browser... ", cfg.Driver)
			sess, err := driver.Open(ctx, cfg, logger, !noState)
			if err != nil {
				fmt.Println("failed")
				return fmt.Errorf("launch failed: %w", err)
			}
			defer sess.Close()
			fmt.Println("done")

			app := screens.New(sess, cfg.BaseURL,
				screens.WithLogger(logger.Named("screens")),
				screens.WithTimeout(cfg.Timeouts.Visibility))
			p, err := app.Screen(args[0])
			if err != nil {
				return err
			}
			return checkScreen(ctx, p, args[1:])
		},
	}
	cmd.Flags().BoolVar(&noState, "no-state", false, "Start without the saved session")
	return cmd
}

func checkScreen(ctx context.Context, p *page.Page, path []string) error {
	fmt.Printf("→ Opening %s... ", p.URL())
	waitErr := p.Goto(ctx, page.Navigation{Path: path, WaitForLoad: true})
	var navErr *page.NavigationError
	if errors.As(waitErr, &navErr) {
		fmt.Println("failed")
		return waitErr
	}
	if waitErr != nil {
		fmt.Println("not ready")
	} else {
		fmt.Println("done")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for key, l := range p.OnLoadLocators().All() {
		mark := "✓"
		visible, err := l.IsVisible(ctx)
		if err != nil || !visible {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", mark, key, l)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, c := range p.Collisions() {
		fmt.Printf("  ! %s\n", c)
	}
	return waitErr
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <path>...",
		Short: "Print the tags derived from spec file paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				fmt.Printf("%s\t%s\n", path, strings.Join(tags.FromPath(path), " "))
			}
			return nil
		},
	}
}

func newScaffoldCmd() *cobra.Command {
	var (
		scope  string
		pkg    string
		fn     string
		output string
	)
	cmd := &cobra.Command{
		Use:   "scaffold <url>",
		Short: "Generate a locator builder from a live screen",
		Long: `scaffold opens the URL with the rod driver, lists the visible interactive
elements and prints Go source for an on-load locator builder.

Example:
  pageobj scaffold "https://panjiachen.github.io/vue-element-admin/#/login" --scope .login-form`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			url := args[0]

			fmt.Fprintf(os.Stderr, "→ Inspecting %s... ", url)
			doc, err := roddriver.Launch(ctx, roddriver.Options{
				Width:             cfg.Browser.Width,
				Height:            cfg.Browser.Height,
				Headless:          cfg.Browser.Headless,
				Bin:               cfg.Browser.Bin,
				ProfileDir:        cfg.Browser.ProfileDir,
				StateFile:         cfg.Auth.StateFile,
				NavigationTimeout: cfg.Timeouts.Navigation,
				Logger:            logger.Named("scaffold"),
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, "failed")
				return fmt.Errorf("launch failed: %w", err)
			}
			defer doc.Close()

			screen, err := scaffold.Inspect(ctx, doc, url, scope)
			if err != nil {
				fmt.Fprintln(os.Stderr, "failed")
				return err
			}
			fmt.Fprintf(os.Stderr, "done (found %d interactive elements)\n", len(screen.Elements))

			src, err := scaffold.Generate(screen, scaffold.Options{Package: pkg, Func: fn})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = os.Stdout.Write(src)
				return err
			}
			if err := afero.WriteFile(afero.NewOsFs(), output, src, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "CSS selector of the container to inspect")
	cmd.Flags().StringVar(&pkg, "package", "screen", "Package name of the generated file")
	cmd.Flags().StringVar(&fn, "func", "OnLoad", "Name of the generated builder")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output filename (default: stdout)")
	return cmd
}
