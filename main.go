package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	pkgbump "github.com/bcomnes/pkgbump/pkg"
	"github.com/bcomnes/pkgbump/pkg/errors"
	"github.com/bcomnes/pkgbump/pkg/logging"
)

const name = "pkgbump"

func newApp() *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     "validate and bump the version in a JSON manifest",
		UsageText: name + " [options] [major|minor|patch|<version>]",
		Version:   Version,
		Description: `Reads the top-level "version" field of a manifest (default: package.json) and validates it.

With a bump level the version is increased (1.2.3 -> 2.0.0 / 1.3.0 / 1.2.4); with an explicit
version such as 1.4.0-beta it is set directly. Without an argument the version is only validated.

Versions look like <major>[.<minor>[.<patch>]][-alpha|-beta|-gamma].

Examples:
  pkgbump minor
  pkgbump --tag beta major
  pkgbump --changelog CHANGELOG.md -e "Fix crash on empty input" patch
  pkgbump --commit 2.0.0`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "manifest",
				Aliases: []string{"m"},
				Usage:   "Path to the JSON manifest holding the version (default: package.json)",
				Sources: cli.EnvVars("PKGBUMP_MANIFEST"),
			},
			&cli.StringFlag{
				Name:    "changelog",
				Aliases: []string{"c"},
				Usage:   "Markdown changelog to prepend an entry to",
				Sources: cli.EnvVars("PKGBUMP_CHANGELOG"),
			},
			&cli.StringSliceFlag{
				Name:    "entry",
				Aliases: []string{"e"},
				Usage:   "Changelog line. May be repeated. Prompted for interactively when omitted.",
			},
			&cli.StringFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Pre-release tag to append to the new version (alpha, beta, gamma)",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Date shown in the changelog heading (default: today)",
			},
			&cli.StringFlag{
				Name:    "date-format",
				Usage:   "Go time layout used for the default changelog date (default: 2006-01-02)",
				Sources: cli.EnvVars("PKGBUMP_DATE_FORMAT"),
			},
			&cli.StringFlag{
				Name:  "gap",
				Usage: `Text between version and date in the changelog heading (default: " - ")`,
			},
			&cli.BoolFlag{
				Name:    "commit",
				Usage:   "Commit the changed files with the new version as message and tag the commit",
				Sources: cli.EnvVars("PKGBUMP_COMMIT"),
			},
			&cli.StringFlag{
				Name:  "tag-prefix",
				Usage: `Prefix for the git tag (default: "v")`,
			},
			&cli.StringFlag{
				Name:    "author-name",
				Usage:   "Commit author name (default: from git config)",
				Sources: cli.EnvVars("PKGBUMP_AUTHOR_NAME"),
			},
			&cli.StringFlag{
				Name:    "author-email",
				Usage:   "Commit author email (default: from git config)",
				Sources: cli.EnvVars("PKGBUMP_AUTHOR_EMAIL"),
			},
			&cli.BoolFlag{
				Name:  "dry",
				Usage: "Perform a dry run without modifying any files or git repository",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML config file (default: " + pkgbump.DefaultConfigFile + " if present)",
				Sources: cli.EnvVars("PKGBUMP_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
		},
		Action: runAction,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, Version, cmd.String("log-level"))

	// Guard against misplaced flags after positional args.
	args := cmd.Args().Slice()
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return errors.New(errors.ErrCodeInvalidRequest,
				"flags must be specified before the version argument; please reorder your arguments")
		}
	}
	if len(args) > 1 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected at most one <version-bump> argument, got %d", len(args)))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	slog.Debug("configuration loaded", "manifest", cfg.Manifest, "changelog", cfg.Changelog, "commit", cfg.Commit)

	opts := pkgbump.Options{
		ManifestPath:  cfg.Manifest,
		Bump:          cmd.Args().First(),
		Tag:           cmd.String("tag"),
		ChangelogPath: cfg.Changelog,
		Entries:       cmd.StringSlice("entry"),
		Date:          cmd.String("date"),
		Gap:           cfg.Gap,
		Commit:        cfg.Commit,
		TagPrefix:     cfg.TagPrefix,
		AuthorName:    cfg.AuthorName,
		AuthorEmail:   cfg.AuthorEmail,
	}
	if opts.Date == "" {
		opts.Date = time.Now().Format(cfg.DateFormat)
	}

	root := cmd.Root()
	dry := cmd.Bool("dry")
	if opts.ChangelogPath != "" && len(opts.Entries) == 0 && !dry && isInteractive(root.Reader) {
		fmt.Fprintln(root.Writer, "Enter changelog entries, one per line. Finish with an empty line.")
		if opts.Entries, err = pkgbump.PromptEntries(root.Reader, root.Writer); err != nil {
			return err
		}
	}

	var meta pkgbump.VersionMeta
	if dry {
		meta, err = pkgbump.DryRun(opts)
	} else {
		meta, err = pkgbump.Run(ctx, opts)
	}
	if err != nil {
		return err
	}

	printSummary(root.Writer, meta, dry)
	return nil
}

// loadConfig reads the config file and applies flag and environment overrides.
func loadConfig(cmd *cli.Command) (pkgbump.Config, error) {
	path := cmd.String("config")
	required := path != ""
	if !required {
		path = pkgbump.DefaultConfigFile
	}
	cfg, err := pkgbump.LoadConfig(path, required)
	if err != nil {
		return cfg, err
	}

	overrides := map[string]*string{
		"manifest":     &cfg.Manifest,
		"changelog":    &cfg.Changelog,
		"date-format":  &cfg.DateFormat,
		"gap":          &cfg.Gap,
		"tag-prefix":   &cfg.TagPrefix,
		"author-name":  &cfg.AuthorName,
		"author-email": &cfg.AuthorEmail,
	}
	for flag, dst := range overrides {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	if cmd.IsSet("commit") {
		cfg.Commit = cmd.Bool("commit")
	}
	return cfg, nil
}

// isInteractive reports whether r is a terminal, or a non-file reader
// supplied programmatically.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func printSummary(w io.Writer, meta pkgbump.VersionMeta, dry bool) {
	switch {
	case dry:
		fmt.Fprintln(w, "Dry run complete; no files were modified.")
	case meta.BumpType == pkgbump.BumpTypeNone:
		fmt.Fprintln(w, "Version is valid.")
	default:
		fmt.Fprintln(w, "Version bump successful!")
	}
	fmt.Fprintf(w, "Old Version: %s\n", meta.OldVersion)
	fmt.Fprintf(w, "New Version: %s\n", meta.NewVersion)
	fmt.Fprintf(w, "Bump Type:   %s\n", meta.BumpType)

	// Print out exactly which files were (or would be) touched.
	if len(meta.UpdatedFiles) > 0 {
		if dry {
			fmt.Fprintln(w, "Files that would be updated:")
		} else {
			fmt.Fprintln(w, "Files updated:")
		}
		for _, f := range meta.UpdatedFiles {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}
