// Package skeleton builds a project from a template source: it plans the
// merged tree, writes it, draws the result and installs dependencies.
package skeleton

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/afero"

	"github.com/tormodhaugland/skeleton/internal/config"
	"github.com/tormodhaugland/skeleton/internal/console"
	"github.com/tormodhaugland/skeleton/internal/filetree"
	"github.com/tormodhaugland/skeleton/internal/install"
	"github.com/tormodhaugland/skeleton/internal/materialize"
)

// Options describes one project to create.
type Options struct {
	Dest      string
	SourceDir string
	Variant   string
	Presets   []string
	Manager   string

	DetectConflicts bool
	NoInstall       bool

	// Yes accepts every default instead of prompting.
	Yes bool
}

// Installer runs a package manager install.
type Installer interface {
	Run(ctx context.Context, manager install.Manager, dir string, onLine install.LineFunc) error
}

// Result describes a created project.
type Result struct {
	Dest     string
	Variant  string
	Source   string
	Manager  install.Manager
	Tree     filetree.Tree
	Copy     *materialize.Result
	Duration time.Duration
}

// Creator wires the engines to the terminal.
type Creator struct {
	FS     afero.Fs
	Fall   *console.Fall
	Logger log.Logger
	Runner Installer
	Now    func() time.Time
}

// New returns a Creator with a real install runner.
func New(fs afero.Fs, fall *console.Fall, logger log.Logger) *Creator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Creator{
		FS:     fs,
		Fall:   fall,
		Logger: logger,
		Runner: install.NewRunner(logger),
		Now:    time.Now,
	}
}

func (c *Creator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Creator) logger() log.Logger {
	if c.Logger == nil {
		return log.NewNopLogger()
	}
	return c.Logger
}

// Plan builds the merged tree for opts without touching the destination.
func (c *Creator) Plan(opts Options) (filetree.Tree, error) {
	variant, err := c.plan(opts)
	if err != nil {
		return nil, err
	}
	return variant.Tree, nil
}

// plan resolves the variant, applies the rename table to its top level,
// folds in each preset and validates the result.
func (c *Creator) plan(opts Options) (*Variant, error) {
	variant, err := LoadVariant(c.FS, c.logger(), opts.SourceDir, opts.Variant)
	if err != nil {
		return nil, err
	}

	rules, err := LoadRules(c.FS, opts.SourceDir)
	if err != nil {
		return nil, err
	}
	base := filetree.ApplyRules(variant.Tree, rules)

	var overlays []filetree.Tree
	if len(opts.Presets) > 0 {
		presets, err := LoadPresets(c.FS, opts.SourceDir)
		if err != nil {
			return nil, err
		}
		for _, name := range opts.Presets {
			preset, err := presets.Lookup(name)
			if err != nil {
				return nil, err
			}
			overlay, err := preset.Overlay(opts.SourceDir)
			if err != nil {
				return nil, fmt.Errorf("preset %s: %w", name, err)
			}
			overlays = append(overlays, overlay)
		}
	}

	variant.Tree = filetree.MergeAll(base, overlays...)
	if err := filetree.Validate(variant.Tree); err != nil {
		return nil, err
	}

	level.Debug(c.logger()).Log("event", "plan.done", "variant", opts.Variant, "root", variant.Root,
		"definition", variant.Definition, "rules", len(rules), "presets", len(overlays),
		"nodes", filetree.Count(variant.Tree))
	return variant, nil
}

// Create writes the project described by opts inside one framed block.
// Per-entry failures are drawn in the diagram and reported in the Result;
// only a failure to plan or to create the destination is returned.
func (c *Creator) Create(ctx context.Context, opts Options) (*Result, error) {
	fall := c.Fall
	start := c.now()

	dest, err := filepath.Abs(opts.Dest)
	if err != nil {
		return nil, fmt.Errorf("resolving destination: %w", err)
	}
	opts.Dest = dest

	fall.Start("Creating skeleton")

	var manager install.Manager
	if opts.Manager != "" && !opts.NoInstall {
		manager, err = install.ParseManager(opts.Manager)
		if err != nil {
			fall.Error(err.Error())
			fall.End("Failed to create skeleton")
			return nil, err
		}
	}

	name, err := c.chooseVariant(ctx, opts)
	if err != nil {
		fall.Error(err.Error())
		fall.End("Failed to create skeleton")
		return nil, err
	}
	opts.Variant = name

	variant, err := c.plan(opts)
	if err != nil {
		fall.Error(err.Error())
		fall.End("Failed to create skeleton")
		return nil, err
	}
	source := variant.Root
	if variant.Definition != "" {
		source = variant.Definition
	}
	fall.Step(fall.Muted("Skeleton path: " + source))
	fall.Step(fall.Muted("Destination path: " + dest))

	tree := variant.Tree
	result := &Result{Dest: dest, Variant: name, Source: variant.Root, Tree: tree}
	m := materialize.New(c.FS, c.logger())
	m.DetectConflicts = opts.DetectConflicts

	err = fall.WithProgress(ctx, "Copying files", filetree.Count(tree), func(ctx context.Context, p *console.Progress) error {
		var err error
		result.Copy, err = m.Materialize(ctx, tree, variant.Root, dest, trackProgress(fall, p))
		return err
	})
	if err != nil {
		fall.End("Failed to create skeleton")
		return nil, err
	}

	fall.Step(filetree.Render(tree, result.Copy.FailedNames(),
		filetree.WithHeader(filepath.Base(dest)),
		filetree.WithRenderer(fall.Session().Renderer()),
	))
	if n := len(result.Copy.Failed); n > 0 {
		fall.Error(fmt.Sprintf("%d of %d entries could not be created", n, filetree.Count(tree)))
	}

	if !opts.NoInstall {
		if manager == "" {
			manager, err = c.chooseManager(ctx, opts)
			if err != nil {
				fall.Error(err.Error())
				fall.End("Failed to create skeleton")
				return nil, err
			}
		}
		result.Manager = manager
	}

	result.Duration = c.now().Sub(start)
	fall.End("Created skeleton in " + fall.Highlight(strconv.FormatInt(result.Duration.Milliseconds(), 10)) + "ms")

	level.Info(c.logger()).Log("event", "create.done", "dest", dest, "variant", name,
		"created", len(result.Copy.Created), "failed", len(result.Copy.Failed), "duration", result.Duration)
	return result, nil
}

// Install runs manager in dest inside its own framed block, echoing the
// output as steps.
func (c *Creator) Install(ctx context.Context, dest string, manager install.Manager) error {
	fall := c.Fall
	fall.Start("Installing dependencies")

	err := fall.WithLoading(ctx, "Installing dependencies with "+string(manager), func(ctx context.Context, l *console.Loading) error {
		return c.Runner.Run(ctx, manager, dest, func(_ install.Stream, line string) {
			if line == "" {
				return
			}
			fall.Step(fall.Muted(line))
		})
	})
	if err != nil {
		fall.End("Failed to install dependencies")
		return err
	}

	fall.End("Dependencies installed")
	return nil
}

func (c *Creator) chooseVariant(ctx context.Context, opts Options) (string, error) {
	if opts.Variant != "" {
		return opts.Variant, nil
	}
	if opts.Yes {
		return config.VariantTS, nil
	}

	useTS, err := c.Fall.Confirm(ctx, "Use TypeScript?", true)
	if err != nil && !errors.Is(err, console.ErrNoPrompter) {
		return "", err
	}
	if useTS {
		return config.VariantTS, nil
	}
	return config.VariantJS, nil
}

func (c *Creator) chooseManager(ctx context.Context, opts Options) (install.Manager, error) {
	if opts.Yes {
		return install.DefaultManager, nil
	}

	name, err := c.Fall.Select(ctx, "Choose a package manager", install.Names(), string(install.DefaultManager))
	if err != nil && !errors.Is(err, console.ErrNoPrompter) {
		return "", err
	}
	return install.ParseManager(name)
}

// trackProgress advances p once per entry. A failed directory also accounts
// for the entries below it, which are never attempted.
func trackProgress(fall *console.Fall, p *console.Progress) materialize.Observer {
	return func(ev materialize.Event) {
		p.Add(1 + ev.Skipped)
		p.SetText(fall.Muted(ev.RelPath))
		if ev.Kind == materialize.EventFailed {
			p.Log(fall.Danger(ev.Err.Error()))
		}
	}
}
