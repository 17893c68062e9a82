package mover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kyle95wm/audiovault-tools/internal/inhibit"
	"github.com/kyle95wm/audiovault-tools/internal/logging"
	"github.com/kyle95wm/audiovault-tools/internal/services"
	"github.com/kyle95wm/audiovault-tools/internal/services/fzf"
	"github.com/kyle95wm/audiovault-tools/internal/services/rclone"
)

// Mode identifies which of the three workflows a session runs.
type Mode string

const (
	ModeLocalCopy  Mode = "local-copy"
	ModeLocalMove  Mode = "local-move"
	ModeRemoteMove Mode = "remote-move"
)

// JunkPolicy controls whether Finder metadata files are excluded from
// directory transfers.
type JunkPolicy string

const (
	JunkAuto JunkPolicy = "auto"
	JunkOn   JunkPolicy = "on"
	JunkOff  JunkPolicy = "off"
)

// junkExcludes are the filter patterns applied when the junk policy resolves
// on. Single-file verbs take no filters, so these reach directory jobs only.
var junkExcludes = []string{".DS_Store", "._*"}

const (
	collisionSkip      = "Skip this item"
	collisionOverwrite = "Transfer anyway, overwrite"
)

// Options fixes the session workflow for the whole invocation.
type Options struct {
	Mode      Mode
	Commit    bool
	LocalPath string
	Junk      JunkPolicy
}

// ResolveOptions validates a CLI flag combination and produces the immutable
// session options.
func ResolveOptions(commit bool, fromLocal string, move bool, junk string) (Options, error) {
	policy := JunkPolicy(strings.ToLower(strings.TrimSpace(junk)))
	switch policy {
	case JunkAuto, JunkOn, JunkOff:
	default:
		return Options{}, services.Wrap(services.ErrUsage, "mover", "flags",
			fmt.Sprintf("junk filter must be on, off, or auto (got %q)", junk), nil)
	}

	fromLocal = strings.TrimSpace(fromLocal)
	if move && fromLocal == "" {
		return Options{}, services.Wrap(services.ErrUsage, "mover", "flags", "--move requires --from-local", nil)
	}

	opts := Options{Mode: ModeRemoteMove, Commit: commit, Junk: policy}
	if fromLocal != "" {
		opts.LocalPath = fromLocal
		opts.Mode = ModeLocalCopy
		if move {
			opts.Mode = ModeLocalMove
		}
	}
	return opts, nil
}

// CheckSource verifies a local-upload source exists. Runs before any prompt.
func (o Options) CheckSource() error {
	if o.LocalPath == "" {
		return nil
	}
	if _, err := os.Stat(o.LocalPath); err != nil {
		return services.Wrap(services.ErrSourceNotFound, "mover", "source", o.LocalPath, err)
	}
	return nil
}

func (o Options) validate() error {
	switch o.Mode {
	case ModeLocalCopy, ModeLocalMove:
		if strings.TrimSpace(o.LocalPath) == "" {
			return errors.New("local upload requires a source path")
		}
	case ModeRemoteMove:
	default:
		return fmt.Errorf("unknown session mode %q", o.Mode)
	}
	switch o.Junk {
	case JunkAuto, JunkOn, JunkOff:
	default:
		return fmt.Errorf("unknown junk policy %q", o.Junk)
	}
	return nil
}

// InhibitFunc starts a sleep inhibitor and returns its stop function.
type InhibitFunc func(ctx context.Context) (func(), error)

// Session drives one interactive transfer workflow from mode resolution to
// final cleanup.
type Session struct {
	opts     Options
	backend  rclone.Backend
	picker   fzf.Picker
	phrase   PhraseFunc
	inhibit  InhibitFunc
	autoJunk bool
	logger   *slog.Logger
	out      io.Writer
}

// SessionOption adjusts session wiring.
type SessionOption func(*Session)

// WithOutput redirects session progress lines. Defaults to stdout.
func WithOutput(w io.Writer) SessionOption {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithPhrasePrompt replaces the interactive typed-confirmation prompt.
func WithPhrasePrompt(fn PhraseFunc) SessionOption {
	return func(s *Session) {
		if fn != nil {
			s.phrase = fn
		}
	}
}

// WithInhibitor supplies the sleep-inhibitor starter used on commit runs.
func WithInhibitor(fn InhibitFunc) SessionOption {
	return func(s *Session) {
		s.inhibit = fn
	}
}

// WithAutoJunk overrides the platform default for the auto junk policy.
func WithAutoJunk(enabled bool) SessionOption {
	return func(s *Session) {
		s.autoJunk = enabled
	}
}

// NewSession wires a transfer session. Backend and picker are required.
func NewSession(opts Options, backend rclone.Backend, picker fzf.Picker, logger *slog.Logger, sessionOpts ...SessionOption) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, errors.New("session requires a storage backend")
	}
	if picker == nil {
		return nil, errors.New("session requires a picker")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	session := &Session{
		opts:     opts,
		backend:  backend,
		picker:   picker,
		phrase:   askPhrase,
		autoJunk: inhibit.Supported(),
		logger:   logging.NewComponentLogger(logger, "mover"),
		out:      os.Stdout,
	}
	for _, opt := range sessionOpts {
		opt(session)
	}
	return session, nil
}

// transferPlan is the fully resolved shape of one batch: where items come
// from, where they go, and which cleanup rules apply.
type transferPlan struct {
	srcRoot  string
	dstRoot  string
	items    []rclone.Entry
	move     bool
	junk     bool
	remote   bool
	localDir bool
}

// Run executes the session state machine. Cancellation at any prompt comes
// back tagged services.ErrCancelled, which callers treat as a clean exit
// with no side effects.
func (s *Session) Run(ctx context.Context) error {
	if err := s.opts.CheckSource(); err != nil {
		return err
	}

	plan, err := s.buildPlan(ctx)
	if err != nil {
		return err
	}
	if err := s.confirm(ctx, plan); err != nil {
		return err
	}
	return s.execute(ctx, plan)
}

func (s *Session) buildPlan(ctx context.Context) (transferPlan, error) {
	switch s.opts.Mode {
	case ModeRemoteMove:
		route, err := s.pickRoute(ctx)
		if err != nil {
			return transferPlan{}, err
		}
		items, err := s.pickItems(ctx, route.Source)
		if err != nil {
			return transferPlan{}, err
		}
		return transferPlan{
			srcRoot: route.Source,
			dstRoot: route.Destination,
			items:   items,
			move:    true,
			remote:  true,
			junk:    s.junkOn(false),
		}, nil
	default:
		dest, err := s.pickDestination(ctx)
		if err != nil {
			return transferPlan{}, err
		}
		move := s.opts.Mode == ModeLocalMove

		info, err := os.Stat(s.opts.LocalPath)
		if err != nil {
			return transferPlan{}, services.Wrap(services.ErrSourceNotFound, "mover", "source", s.opts.LocalPath, err)
		}
		if !info.IsDir() {
			item := rclone.Entry{Rel: filepath.Base(s.opts.LocalPath)}
			return transferPlan{
				srcRoot: filepath.Dir(s.opts.LocalPath),
				dstRoot: dest.Name,
				items:   []rclone.Entry{item},
				move:    move,
				junk:    s.junkOn(false),
			}, nil
		}

		items, err := s.pickItems(ctx, s.opts.LocalPath)
		if err != nil {
			return transferPlan{}, err
		}
		return transferPlan{
			srcRoot:  s.opts.LocalPath,
			dstRoot:  dest.Name,
			items:    items,
			move:     move,
			localDir: true,
			junk:     s.junkOn(true),
		}, nil
	}
}

func (s *Session) pickRoute(ctx context.Context) (Route, error) {
	routes := Routes()
	choices := make([]string, len(routes))
	for i, route := range routes {
		choices[i] = route.Label
	}
	label, err := s.picker.Pick(ctx, "Route", choices)
	if err != nil {
		return Route{}, err
	}
	for _, route := range routes {
		if route.Label == label {
			s.logger.Debug("route selected",
				logging.String("source", route.Source),
				logging.String("destination", route.Destination))
			return route, nil
		}
	}
	return Route{}, fmt.Errorf("unknown route %q", label)
}

func (s *Session) pickDestination(ctx context.Context) (Root, error) {
	roots := UploadDestinations()
	choices := make([]string, len(roots))
	for i, root := range roots {
		choices[i] = root.Label
	}
	label, err := s.picker.Pick(ctx, "Destination", choices)
	if err != nil {
		return Root{}, err
	}
	for _, root := range roots {
		if root.Label == label {
			s.logger.Debug("destination selected", logging.String("root", root.Name))
			return root, nil
		}
	}
	return Root{}, fmt.Errorf("unknown destination %q", label)
}

func (s *Session) pickItems(ctx context.Context, root string) ([]rclone.Entry, error) {
	entries, err := s.backend.List(ctx, root, true)
	if err != nil {
		return nil, err
	}
	choices := make([]string, len(entries))
	for i, entry := range entries {
		choices[i] = entry.Label()
	}
	picked, err := s.picker.PickMany(ctx, "Items", choices)
	if err != nil {
		return nil, err
	}

	// Execution order follows the listing, not the order fzf emitted tags.
	chosen := make(map[string]struct{}, len(picked))
	for _, label := range picked {
		chosen[label] = struct{}{}
	}
	selected := make([]rclone.Entry, 0, len(picked))
	for _, entry := range entries {
		if _, ok := chosen[entry.Label()]; ok {
			selected = append(selected, entry)
		}
	}
	if len(selected) == 0 {
		return nil, services.Wrap(services.ErrCancelled, "mover", "items", "no items selected", nil)
	}
	return selected, nil
}

// junkOn resolves the junk policy. Auto turns the filter on only when
// uploading a local directory on the platform whose Finder litters metadata
// files in the first place.
func (s *Session) junkOn(localDir bool) bool {
	switch s.opts.Junk {
	case JunkOn:
		return true
	case JunkOff:
		return false
	default:
		return localDir && s.autoJunk
	}
}

func (s *Session) confirm(ctx context.Context, plan transferPlan) error {
	verb := "copy"
	if plan.move {
		verb = "move"
	}
	fmt.Fprintf(s.out, "%d item(s) to %s from %s to %s\n", len(plan.items), verb, plan.srcRoot, plan.dstRoot)
	if !s.opts.Commit {
		fmt.Fprintln(s.out, "Dry-run: rclone runs with --dry-run and changes nothing. Use --commit to apply.")
	}

	ok, err := s.picker.Confirm(ctx, fmt.Sprintf("Proceed with %s?", verb), "Yes, proceed", "No, cancel")
	if err != nil {
		return err
	}
	if !ok {
		return services.Wrap(services.ErrCancelled, "mover", "confirm", "transfer declined", nil)
	}

	if s.opts.Mode == ModeLocalMove && s.opts.Commit {
		answer, err := s.phrase(fmt.Sprintf("Type %q to erase the local originals after upload:", destructiveConfirmPhrase))
		if err != nil {
			return err
		}
		if answer != destructiveConfirmPhrase {
			return services.Wrap(services.ErrCancelled, "mover", "confirm", "confirmation phrase mismatch", nil)
		}
	}
	return nil
}

func (s *Session) execute(ctx context.Context, plan transferPlan) error {
	if s.opts.Commit && s.inhibit != nil {
		stop, err := s.inhibit(ctx)
		if err != nil {
			s.logger.Warn("sleep inhibitor unavailable", logging.Error(err))
		} else if stop != nil {
			defer stop()
		}
	}

	failures := 0
	for _, item := range plan.items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runJob(ctx, plan, item); err != nil {
			failures++
			fmt.Fprintf(s.out, "error: %s: %v\n", item.Label(), err)
		}
	}

	s.finalCleanup(ctx, plan)

	if failures > 0 {
		fmt.Fprintf(s.out, "%d of %d item(s) failed\n", failures, len(plan.items))
	}
	fmt.Fprintln(s.out, "Done.")
	return nil
}

func (s *Session) runJob(ctx context.Context, plan transferPlan, item rclone.Entry) error {
	src := Join(plan.srcRoot, item.Rel)
	dst := Join(plan.dstRoot, item.Rel)
	fmt.Fprintf(s.out, "-> %s => %s\n", Join(plan.srcRoot, item.Label()), Join(plan.dstRoot, item.Label()))

	if s.opts.Commit && destinationExists(ctx, s.backend, dst, item.IsDir) {
		fmt.Fprintf(s.out, "warning: destination already has %s\n", item.Label())
		choice, err := s.picker.Pick(ctx, fmt.Sprintf("%s exists at destination", item.Label()),
			[]string{collisionSkip, collisionOverwrite})
		if err != nil && !errors.Is(err, services.ErrCancelled) {
			return err
		}
		if choice != collisionOverwrite {
			fmt.Fprintf(s.out, "skipped %s\n", item.Label())
			return nil
		}
	}

	opts := rclone.TransferOptions{DryRun: !s.opts.Commit}
	if item.IsDir && plan.junk {
		opts.Excludes = append([]string(nil), junkExcludes...)
	}

	var err error
	switch {
	case item.IsDir && plan.move:
		err = s.backend.Move(ctx, src, dst, opts)
	case item.IsDir:
		err = s.backend.Copy(ctx, src, dst, opts)
	case plan.move:
		err = s.backend.MoveTo(ctx, src, dst, opts)
	default:
		err = s.backend.CopyTo(ctx, src, dst, opts)
	}
	if err != nil {
		return err
	}

	if s.opts.Commit && plan.move && item.IsDir {
		if cleanupErr := s.backend.RemoveEmptyDirs(ctx, src, false); cleanupErr != nil {
			s.logger.Warn("cleanup after move failed",
				logging.String("path", src),
				logging.Error(cleanupErr))
		}
	}
	return nil
}

// finalCleanup prunes directories emptied by a commit-mode move. The named
// remote root itself always survives; a local directory source may disappear
// entirely. A single-file local move leaves no directories behind.
func (s *Session) finalCleanup(ctx context.Context, plan transferPlan) {
	if !s.opts.Commit || !plan.move {
		return
	}
	switch {
	case plan.remote:
		if err := s.backend.RemoveEmptyDirs(ctx, plan.srcRoot, true); err != nil {
			s.logger.Warn("final cleanup failed",
				logging.String("root", plan.srcRoot),
				logging.Error(err))
		}
	case plan.localDir:
		if err := s.backend.RemoveEmptyDirs(ctx, plan.srcRoot, false); err != nil {
			s.logger.Warn("final cleanup failed",
				logging.String("root", plan.srcRoot),
				logging.Error(err))
		}
	}
}
