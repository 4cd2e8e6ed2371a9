package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"startpage/internal/config"
	"startpage/internal/directory"
	"startpage/internal/models"
	"startpage/internal/resolver"
	"startpage/internal/validation"
)

// out returns where command output goes.
func out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func withServices(ctx context.Context, cmd *cli.Command, fn func(svc *services) error) error {
	svc, err := openServices(ctx, config.Load(), newLogger(cmd))
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

func resolve(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	return withServices(ctx, cmd, func(svc *services) error {
		r, err := resolver.Resolve(query, svc.dir, svc.prefs.ResolverConfig())
		if err != nil {
			return err
		}
		printResolved(out(cmd), r)

		if cmd.Bool("suggest") {
			for _, s := range svc.assembler.Suggest(ctx, r) {
				fmt.Fprintf(out(cmd), "  %s\n", s)
			}
		}
		return nil
	})
}

func printResolved(w io.Writer, r models.Resolved) {
	if r.Kind == models.KindNone {
		fmt.Fprintln(w, "none")
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", r.Kind, r.URL)
}

func listShortcuts(ctx context.Context, cmd *cli.Command) error {
	return withServices(ctx, cmd, func(svc *services) error {
		return writeShortcuts(out(cmd), svc.dir.Entries())
	})
}

func writeShortcuts(w io.Writer, entries []models.ShortcutEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tTARGET")
	for _, e := range entries {
		target := e.URL
		if e.IsAlias() {
			target = "→ " + e.Command
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Name, target)
	}
	return tw.Flush()
}

func exportShortcuts(ctx context.Context, cmd *cli.Command) error {
	return withServices(ctx, cmd, func(svc *services) error {
		enc := yaml.NewEncoder(out(cmd))
		enc.SetIndent(2)
		if err := enc.Encode(config.YAMLConfig{Shortcuts: svc.dir.Entries()}); err != nil {
			return err
		}
		return enc.Close()
	})
}

func importShortcuts(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("import needs a config file")
	}

	fileCfg, err := config.LoadYAMLFile(path)
	if err != nil {
		return err
	}
	if fileCfg == nil {
		return fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}

	return withServices(ctx, cmd, func(svc *services) error {
		cfg := svc.prefs.ResolverConfig()
		if err := validateEntries(fileCfg.Shortcuts, cfg.PathDelimiter, cfg.SearchDelimiter); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := replaceShortcuts(ctx, svc.dir, fileCfg.Shortcuts); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "imported %d shortcuts\n", len(fileCfg.Shortcuts))
		return nil
	})
}

func validateEntries(entries []models.ShortcutEntry, delimiters ...string) error {
	for _, e := range entries {
		if err := validation.ValidateShortcut(e.Key, e.Shortcut, delimiters...); err != nil {
			return fmt.Errorf("shortcut %q: %w", e.Key, err)
		}
	}
	return nil
}

func replaceShortcuts(ctx context.Context, dir *directory.Store, entries []models.ShortcutEntry) error {
	if err := dir.Clear(ctx); err != nil {
		return err
	}
	for _, e := range entries {
		if err := dir.Add(ctx, e.Key, e.Shortcut, false); err != nil {
			return err
		}
	}
	return nil
}

func resetShortcuts(ctx context.Context, cmd *cli.Command) error {
	return withServices(ctx, cmd, func(svc *services) error {
		if err := svc.dir.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "restored %d shortcuts\n", svc.dir.Len())
		return nil
	})
}
