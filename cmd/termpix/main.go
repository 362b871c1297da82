// ABOUTME: CLI entry point: renders images and animations to the terminal
// ABOUTME: Parses flags, loads config, picks a style, drives the render pipeline

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/termpix/internal/config"
	"github.com/mauromedda/termpix/internal/log"
	"github.com/mauromedda/termpix/pkg/pixels"
	"github.com/mauromedda/termpix/pkg/render"
	"github.com/mauromedda/termpix/pkg/style"
	"github.com/mauromedda/termpix/pkg/term"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("termpix %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}
	if args.verbose {
		log.SetLevel(log.LevelDebug)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	paths := args.remaining()
	if len(paths) == 0 {
		return errors.New("no image paths given (usage: termpix [flags] image...)")
	}
	if (args.width > 0) != (args.height > 0) {
		return errors.New("-width and -height must be given together")
	}

	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	if args.noQueries || !settings.Queries() {
		term.SetQueriesEnabled(false)
	}

	term.Configure(settings)
	terminal, _ := term.Active()

	class, err := pickStyle(args.style, terminal)
	if err != nil {
		return err
	}
	log.Debug("using style %s", class.Name())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, path := range paths {
		if err := renderPath(ctx, path, class, terminal, args, settings); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// pickStyle resolves the requested style name, or auto-detects when none
// was given. Unknown names get fuzzy suggestions against the registry.
func pickStyle(name string, t *term.Terminal) (*render.Class, error) {
	if name == "" {
		return style.Detect(t), nil
	}
	if c, ok := render.Lookup(name); ok {
		return c, nil
	}

	names := render.ClassNames()
	matches := fuzzy.Find(name, names)
	if len(matches) > 0 {
		suggestions := make([]string, 0, 3)
		for i, m := range matches {
			if i == 3 {
				break
			}
			suggestions = append(suggestions, m.Str)
		}
		return nil, fmt.Errorf("unknown style %q (did you mean %s?)",
			name, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("unknown style %q (available: %s)",
		name, strings.Join(names, ", "))
}

func renderPath(ctx context.Context, path string, class *render.Class, t *term.Terminal, args cliArgs, settings *config.Settings) error {
	src, err := pixels.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	opts := []render.Option{render.WithTerminal(t)}
	if args.width > 0 {
		opts = append(opts, render.WithSize(args.width, args.height))
	}
	r, err := render.New(class, src, opts...)
	if err != nil {
		return err
	}

	n, definite := src.FrameCount()
	animated := !definite || n > 1
	if !animated {
		frame, err := r.Render(ctx, render.Args{})
		if err != nil {
			return err
		}
		fmt.Println(frame.Content)
		return nil
	}

	return playAnimation(ctx, r, args, settings.CacheThreshold)
}

// playAnimation drives the frame iterator, honoring each frame's delay
// and rewinding the cursor between frames for the block style.
func playAnimation(ctx context.Context, r *render.Renderable, args cliArgs, cacheLimit int) error {
	opts := []render.IteratorOption{render.WithCache(cacheLimit)}
	if args.loop {
		opts = append(opts, render.WithLoop())
	} else {
		opts = append(opts, render.WithRepeat(args.repeat))
	}

	it, err := r.Iterator(render.Args{}, opts...)
	if err != nil {
		return err
	}
	defer it.Close()

	rewind := ""
	for {
		frame, err := it.Next(ctx)
		if errors.Is(err, render.ErrExhausted) {
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Print(rewind, frame.Content, "\n")
		if strings.Contains(frame.Content, "\n") {
			// Text output: move back up over the printed lines.
			rewind = fmt.Sprintf("\x1b[%dA", frame.Size.Height)
		} else {
			rewind = "\x1b[1A"
		}

		dur := frame.Duration
		if dur <= 0 {
			dur = pixels.DefaultFrameDuration
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
		}
	}
}
