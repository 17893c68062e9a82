package mover

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kyle95wm/audiovault-tools/internal/logging"
	"github.com/kyle95wm/audiovault-tools/internal/services"
	"github.com/kyle95wm/audiovault-tools/internal/services/rclone"
)

type backendCall struct {
	verb      string
	src       string
	dst       string
	dryRun    bool
	excludes  []string
	leaveRoot bool
}

type fakeBackend struct {
	listings map[string][]rclone.Entry
	listErr  map[string]error
	failOn   map[string]error // keyed by "verb src"
	calls    []backendCall
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		listings: map[string][]rclone.Entry{},
		listErr:  map[string]error{},
		failOn:   map[string]error{},
	}
}

func (f *fakeBackend) List(_ context.Context, root string, _ bool) ([]rclone.Entry, error) {
	f.calls = append(f.calls, backendCall{verb: "list", src: root})
	if err, ok := f.listErr[root]; ok {
		return nil, err
	}
	return append([]rclone.Entry(nil), f.listings[root]...), nil
}

func (f *fakeBackend) record(verb, src, dst string, opts rclone.TransferOptions) error {
	f.calls = append(f.calls, backendCall{
		verb:     verb,
		src:      src,
		dst:      dst,
		dryRun:   opts.DryRun,
		excludes: append([]string(nil), opts.Excludes...),
	})
	if err, ok := f.failOn[verb+" "+src]; ok {
		return err
	}
	return nil
}

func (f *fakeBackend) Copy(_ context.Context, src, dst string, opts rclone.TransferOptions) error {
	return f.record("copy", src, dst, opts)
}

func (f *fakeBackend) Move(_ context.Context, src, dst string, opts rclone.TransferOptions) error {
	return f.record("move", src, dst, opts)
}

func (f *fakeBackend) CopyTo(_ context.Context, src, dst string, opts rclone.TransferOptions) error {
	return f.record("copyto", src, dst, opts)
}

func (f *fakeBackend) MoveTo(_ context.Context, src, dst string, opts rclone.TransferOptions) error {
	return f.record("moveto", src, dst, opts)
}

func (f *fakeBackend) RemoveEmptyDirs(_ context.Context, root string, leaveRoot bool) error {
	f.calls = append(f.calls, backendCall{verb: "rmdirs", src: root, leaveRoot: leaveRoot})
	if err, ok := f.failOn["rmdirs "+root]; ok {
		return err
	}
	return nil
}

// mutations filters the call log down to operations that would change
// storage when run against a real backend.
func (f *fakeBackend) mutations() []backendCall {
	var muts []backendCall
	for _, call := range f.calls {
		if call.verb == "list" || call.dryRun {
			continue
		}
		muts = append(muts, call)
	}
	return muts
}

type fakePicker struct {
	t        *testing.T
	picks    []string   // consumed by Pick; "" means cancel
	multi    [][]string // consumed by PickMany; nil means cancel
	confirms []bool
}

func cancelErr(operation string) error {
	return services.Wrap(services.ErrCancelled, "fzf", operation, "cancelled", nil)
}

func (p *fakePicker) Pick(_ context.Context, prompt string, _ []string) (string, error) {
	if len(p.picks) == 0 {
		p.t.Fatalf("unexpected Pick(%q)", prompt)
	}
	answer := p.picks[0]
	p.picks = p.picks[1:]
	if answer == "" {
		return "", cancelErr("pick")
	}
	return answer, nil
}

func (p *fakePicker) PickMany(_ context.Context, prompt string, _ []string) ([]string, error) {
	if len(p.multi) == 0 {
		p.t.Fatalf("unexpected PickMany(%q)", prompt)
	}
	answer := p.multi[0]
	p.multi = p.multi[1:]
	if answer == nil {
		return nil, cancelErr("pick")
	}
	return answer, nil
}

func (p *fakePicker) Confirm(_ context.Context, prompt, _, _ string) (bool, error) {
	if len(p.confirms) == 0 {
		p.t.Fatalf("unexpected Confirm(%q)", prompt)
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func newTestSession(t *testing.T, opts Options, backend *fakeBackend, picker *fakePicker, extra ...SessionOption) (*Session, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	sessionOpts := append([]SessionOption{WithOutput(out)}, extra...)
	session, err := NewSession(opts, backend, picker, logging.NewNop(), sessionOpts...)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	return session, out
}

func callSequence(calls []backendCall) []string {
	seq := make([]string, len(calls))
	for i, call := range calls {
		seq[i] = call.verb + " " + call.src
	}
	return seq
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolveOptions(t *testing.T) {
	if _, err := ResolveOptions(false, "", true, "auto"); !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error for --move without --from-local, got %v", err)
	}
	if _, err := ResolveOptions(false, "", false, "sometimes"); !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error for bad junk policy, got %v", err)
	}
	if code := services.ExitCode(services.Wrap(services.ErrUsage, "mover", "flags", "x", nil)); code != 2 {
		t.Fatalf("usage errors must exit 2, got %d", code)
	}

	opts, err := ResolveOptions(true, "", false, "auto")
	if err != nil {
		t.Fatalf("ResolveOptions returned error: %v", err)
	}
	if opts.Mode != ModeRemoteMove || !opts.Commit || opts.Junk != JunkAuto {
		t.Fatalf("unexpected remote options: %+v", opts)
	}

	opts, err = ResolveOptions(false, "/some/dir", false, "off")
	if err != nil {
		t.Fatalf("ResolveOptions returned error: %v", err)
	}
	if opts.Mode != ModeLocalCopy || opts.LocalPath != "/some/dir" || opts.Junk != JunkOff {
		t.Fatalf("unexpected local copy options: %+v", opts)
	}

	opts, err = ResolveOptions(true, "/some/dir", true, "on")
	if err != nil {
		t.Fatalf("ResolveOptions returned error: %v", err)
	}
	if opts.Mode != ModeLocalMove || opts.Junk != JunkOn {
		t.Fatalf("unexpected local move options: %+v", opts)
	}
}

func TestNewSessionValidation(t *testing.T) {
	picker := &fakePicker{t: t}
	backend := newFakeBackend()
	logger := logging.NewNop()

	if _, err := NewSession(Options{Mode: ModeRemoteMove, Junk: JunkAuto}, nil, picker, logger); err == nil {
		t.Fatal("expected error for nil backend")
	}
	if _, err := NewSession(Options{Mode: ModeRemoteMove, Junk: JunkAuto}, backend, nil, logger); err == nil {
		t.Fatal("expected error for nil picker")
	}
	if _, err := NewSession(Options{Mode: Mode("weird"), Junk: JunkAuto}, backend, picker, logger); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if _, err := NewSession(Options{Mode: ModeLocalCopy, Junk: JunkAuto}, backend, picker, logger); err == nil {
		t.Fatal("expected error for local mode without a source path")
	}
}

func TestRemoteMoveCommitFullScenario(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:movies/available"] = []rclone.Entry{
		{Rel: "foo.txt"},
		{Rel: "bar", IsDir: true},
	}
	// fzf reports tagged lines in selection order; the session must re-sort
	// them to listing order.
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt movies/available"},
		multi:    [][]string{{"bar/", "foo.txt"}},
		confirms: []bool{true},
	}
	session, out := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []string{
		"list av:movies/available",
		"list av-crypt:movies/available",
		"moveto av:movies/available/foo.txt",
		"list av-crypt:movies/available",
		"move av:movies/available/bar",
		"rmdirs av:movies/available/bar",
		"rmdirs av:movies/available",
	}
	if got := callSequence(backend.calls); !equalStrings(got, want) {
		t.Fatalf("unexpected call sequence:\n got %v\nwant %v", got, want)
	}

	if dst := backend.calls[2].dst; dst != "av-crypt:movies/available/foo.txt" {
		t.Fatalf("unexpected file destination: %q", dst)
	}
	if dst := backend.calls[4].dst; dst != "av-crypt:movies/available/bar" {
		t.Fatalf("unexpected directory destination: %q", dst)
	}
	if backend.calls[5].leaveRoot {
		t.Fatal("per-item cleanup must not leave the item directory")
	}
	if !backend.calls[6].leaveRoot {
		t.Fatal("final cleanup must leave the source root")
	}
	for _, call := range backend.calls {
		if call.dryRun {
			t.Fatalf("commit run produced a dry-run call: %+v", call)
		}
	}
	if !strings.Contains(out.String(), "-> av:movies/available/bar/ => av-crypt:movies/available/bar/") {
		t.Fatalf("missing directory job line in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Done.") {
		t.Fatalf("missing final Done line:\n%s", out.String())
	}
}

func TestDryRunNeverMutates(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:movies/available"] = []rclone.Entry{
		{Rel: "foo.txt"},
		{Rel: "bar", IsDir: true},
	}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt movies/available"},
		multi:    [][]string{{"foo.txt", "bar/"}},
		confirms: []bool{true},
	}
	session, out := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: false, Junk: JunkOff}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for _, call := range backend.calls {
		switch call.verb {
		case "list":
			if call.src != "av:movies/available" {
				t.Fatalf("dry-run must not inspect destinations: %+v", call)
			}
		case "move", "moveto":
			if !call.dryRun {
				t.Fatalf("dry-run transfer without the dry-run flag: %+v", call)
			}
		default:
			t.Fatalf("unexpected backend verb in dry-run: %+v", call)
		}
	}
	if muts := backend.mutations(); len(muts) != 0 {
		t.Fatalf("dry-run produced mutations: %v", muts)
	}
	// Planning output matches commit mode up to execution.
	if !strings.Contains(out.String(), "-> av:movies/available/foo.txt => av-crypt:movies/available/foo.txt") {
		t.Fatalf("missing resolved path line in dry-run output:\n%s", out.String())
	}
}

func TestCancelAtRoutePickHasNoSideEffects(t *testing.T) {
	backend := newFakeBackend()
	picker := &fakePicker{t: t, picks: []string{""}}
	session, _ := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	err := session.Run(context.Background())
	if !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if services.ExitCode(err) != 0 {
		t.Fatalf("cancellation must exit 0, got %d", services.ExitCode(err))
	}
	if len(backend.calls) != 0 {
		t.Fatalf("cancelled session touched the backend: %v", backend.calls)
	}
}

func TestCancelAtItemsPickHasNoMutations(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:shows/active"] = []rclone.Entry{{Rel: "ep1.mp3"}}
	picker := &fakePicker{
		t:     t,
		picks: []string{"Encrypt shows/active"},
		multi: [][]string{nil},
	}
	session, _ := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	err := session.Run(context.Background())
	if !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if muts := backend.mutations(); len(muts) != 0 {
		t.Fatalf("cancelled session mutated the backend: %v", muts)
	}
}

func TestConfirmDeclineCancels(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:shows/active"] = []rclone.Entry{{Rel: "ep1.mp3"}}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt shows/active"},
		multi:    [][]string{{"ep1.mp3"}},
		confirms: []bool{false},
	}
	session, _ := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	err := session.Run(context.Background())
	if !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if muts := backend.mutations(); len(muts) != 0 {
		t.Fatalf("declined session mutated the backend: %v", muts)
	}
}

func TestLocalMovePhraseMismatchCancels(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ep1.wav"), []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	backend := newFakeBackend()
	backend.listings[dir] = []rclone.Entry{{Rel: "ep1.wav"}}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypted shows/active"},
		multi:    [][]string{{"ep1.wav"}},
		confirms: []bool{true},
	}
	phrase := func(string) (string, error) { return "no thanks", nil }
	session, _ := newTestSession(t,
		Options{Mode: ModeLocalMove, Commit: true, LocalPath: dir, Junk: JunkOff},
		backend, picker, WithPhrasePrompt(phrase))

	err := session.Run(context.Background())
	if !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if services.ExitCode(err) != 0 {
		t.Fatalf("phrase mismatch must exit 0, got %d", services.ExitCode(err))
	}
	if muts := backend.mutations(); len(muts) != 0 {
		t.Fatalf("phrase mismatch mutated the backend: %v", muts)
	}
}

func TestLocalMoveExactPhraseProceeds(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ep1.wav"), []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	backend := newFakeBackend()
	backend.listings[dir] = []rclone.Entry{{Rel: "ep1.wav"}}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypted shows/active"},
		multi:    [][]string{{"ep1.wav"}},
		confirms: []bool{true},
	}
	phrase := func(string) (string, error) { return "erase originals", nil }
	session, _ := newTestSession(t,
		Options{Mode: ModeLocalMove, Commit: true, LocalPath: dir, Junk: JunkOff},
		backend, picker, WithPhrasePrompt(phrase))

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	sawMove := false
	for _, call := range backend.calls {
		if call.verb == "moveto" {
			sawMove = true
			if call.src != filepath.Join(dir, "ep1.wav") {
				t.Fatalf("unexpected move source: %q", call.src)
			}
			if call.dst != "av-crypt:shows/active/ep1.wav" {
				t.Fatalf("unexpected move destination: %q", call.dst)
			}
		}
	}
	if !sawMove {
		t.Fatal("expected a moveto call")
	}
	final := backend.calls[len(backend.calls)-1]
	if final.verb != "rmdirs" || final.src != dir || final.leaveRoot {
		t.Fatalf("expected final cleanup of the local directory without leave-root, got %+v", final)
	}
}

func TestLocalCopyDryRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "promo.wav")
	if err := os.WriteFile(file, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	backend := newFakeBackend()
	// No PickMany scripted: a single-file source skips the item picker.
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Plaintext movies/available"},
		confirms: []bool{true},
	}
	session, _ := newTestSession(t,
		Options{Mode: ModeLocalCopy, Commit: false, LocalPath: file, Junk: JunkAuto},
		backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(backend.calls) != 1 {
		t.Fatalf("expected exactly one backend call, got %v", backend.calls)
	}
	call := backend.calls[0]
	if call.verb != "copyto" || !call.dryRun {
		t.Fatalf("expected a dry-run copyto, got %+v", call)
	}
	if call.src != file || call.dst != "av:movies/available/promo.wav" {
		t.Fatalf("unexpected paths: %q -> %q", call.src, call.dst)
	}
	if len(call.excludes) != 0 {
		t.Fatalf("single-file transfer must carry no filters: %+v", call)
	}
}

func TestCollisionSkipNeverExecutes(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:movies/available"] = []rclone.Entry{{Rel: "foo.txt"}}
	backend.listings["av-crypt:movies/available"] = []rclone.Entry{{Rel: "foo.txt"}}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt movies/available", collisionSkip},
		multi:    [][]string{{"foo.txt"}},
		confirms: []bool{true},
	}
	session, out := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for _, call := range backend.calls {
		if call.verb == "moveto" {
			t.Fatal("skipped item must never be transferred")
		}
	}
	if !strings.Contains(out.String(), "warning: destination already has foo.txt") {
		t.Fatalf("missing collision warning:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "skipped foo.txt") {
		t.Fatalf("missing skip line:\n%s", out.String())
	}
	final := backend.calls[len(backend.calls)-1]
	if final.verb != "rmdirs" || !final.leaveRoot {
		t.Fatalf("expected final cleanup with leave-root, got %+v", final)
	}
}

func TestCollisionCancelMeansSkip(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:movies/available"] = []rclone.Entry{{Rel: "foo.txt"}}
	backend.listings["av-crypt:movies/available"] = []rclone.Entry{{Rel: "foo.txt"}}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt movies/available", ""},
		multi:    [][]string{{"foo.txt"}},
		confirms: []bool{true},
	}
	session, out := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, call := range backend.calls {
		if call.verb == "moveto" {
			t.Fatal("cancelled collision prompt must skip the item")
		}
	}
	if !strings.Contains(out.String(), "skipped foo.txt") {
		t.Fatalf("missing skip line:\n%s", out.String())
	}
}

func TestCollisionOverwriteProceeds(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:movies/available"] = []rclone.Entry{{Rel: "foo.txt"}}
	backend.listings["av-crypt:movies/available"] = []rclone.Entry{{Rel: "foo.txt"}}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt movies/available", collisionOverwrite},
		multi:    [][]string{{"foo.txt"}},
		confirms: []bool{true},
	}
	session, _ := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	sawMove := false
	for _, call := range backend.calls {
		if call.verb == "moveto" {
			sawMove = true
		}
	}
	if !sawMove {
		t.Fatal("overwrite choice must execute the transfer")
	}
}

func TestCollisionTypeMismatchDoesNotPrompt(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:movies/available"] = []rclone.Entry{{Rel: "bar", IsDir: true}}
	backend.listings["av-crypt:movies/available"] = []rclone.Entry{{Rel: "bar"}} // file, not dir
	// Only the route pick is scripted; a collision prompt would fail the test.
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt movies/available"},
		multi:    [][]string{{"bar/"}},
		confirms: []bool{true},
	}
	session, _ := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	sawMove := false
	for _, call := range backend.calls {
		if call.verb == "move" {
			sawMove = true
		}
	}
	if !sawMove {
		t.Fatal("type mismatch must not block the transfer")
	}
}

func TestPartialFailureContinues(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:shows/active"] = []rclone.Entry{
		{Rel: "ep1.mp3"},
		{Rel: "ep2.mp3"},
	}
	backend.failOn["moveto av:shows/active/ep1.mp3"] = errors.New("exit status 3")
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt shows/active"},
		multi:    [][]string{{"ep1.mp3", "ep2.mp3"}},
		confirms: []bool{true},
	}
	session, out := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	sawSecond := false
	for _, call := range backend.calls {
		if call.verb == "moveto" && call.src == "av:shows/active/ep2.mp3" {
			sawSecond = true
		}
	}
	if !sawSecond {
		t.Fatal("failure of one job must not stop the batch")
	}
	if !strings.Contains(out.String(), "error: ep1.mp3:") {
		t.Fatalf("missing per-item error line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "1 of 2 item(s) failed") {
		t.Fatalf("missing failure summary:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Done.") {
		t.Fatalf("Done line must print even after failures:\n%s", out.String())
	}
}

func TestJunkFilterReachesDirectoryJobsOnly(t *testing.T) {
	backend := newFakeBackend()
	backend.listings["av:movies/available"] = []rclone.Entry{
		{Rel: "foo.txt"},
		{Rel: "bar", IsDir: true},
	}
	picker := &fakePicker{
		t:        t,
		picks:    []string{"Encrypt movies/available"},
		multi:    [][]string{{"foo.txt", "bar/"}},
		confirms: []bool{true},
	}
	session, _ := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOn}, backend, picker)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for _, call := range backend.calls {
		switch call.verb {
		case "move":
			if !equalStrings(call.excludes, []string{".DS_Store", "._*"}) {
				t.Fatalf("directory job missing junk excludes: %+v", call)
			}
		case "moveto":
			if len(call.excludes) != 0 {
				t.Fatalf("file job must not carry filters: %+v", call)
			}
		}
	}
}

func TestJunkAutoFollowsPlatformForLocalDirectories(t *testing.T) {
	run := func(autoJunk bool) []backendCall {
		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		backend := newFakeBackend()
		backend.listings[dir] = []rclone.Entry{{Rel: "sub", IsDir: true}}
		picker := &fakePicker{
			t:        t,
			picks:    []string{"Plaintext movies/available"},
			multi:    [][]string{{"sub/"}},
			confirms: []bool{true},
		}
		session, _ := newTestSession(t,
			Options{Mode: ModeLocalCopy, Commit: true, LocalPath: dir, Junk: JunkAuto},
			backend, picker, WithAutoJunk(autoJunk))
		if err := session.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		return backend.calls
	}

	for _, call := range run(true) {
		if call.verb == "copy" && !equalStrings(call.excludes, []string{".DS_Store", "._*"}) {
			t.Fatalf("auto junk on the capable platform must filter: %+v", call)
		}
	}
	for _, call := range run(false) {
		if call.verb == "copy" && len(call.excludes) != 0 {
			t.Fatalf("auto junk elsewhere must not filter: %+v", call)
		}
	}
}

func TestMissingLocalSourceFailsBeforePrompts(t *testing.T) {
	backend := newFakeBackend()
	picker := &fakePicker{t: t} // any prompt fails the test
	opts := Options{Mode: ModeLocalCopy, Commit: false, LocalPath: filepath.Join(t.TempDir(), "absent"), Junk: JunkAuto}
	session, _ := newTestSession(t, opts, backend, picker)

	err := session.Run(context.Background())
	if !errors.Is(err, services.ErrSourceNotFound) {
		t.Fatalf("expected source-not-found, got %v", err)
	}
	if services.ExitCode(err) != 2 {
		t.Fatalf("source-not-found must exit 2, got %d", services.ExitCode(err))
	}
	if len(backend.calls) != 0 {
		t.Fatalf("missing source must not touch the backend: %v", backend.calls)
	}
}

func TestInhibitorRunsOnlyOnCommit(t *testing.T) {
	newScenario := func() (*fakeBackend, *fakePicker) {
		backend := newFakeBackend()
		backend.listings["av:shows/active"] = []rclone.Entry{{Rel: "ep1.mp3"}}
		picker := &fakePicker{
			t:        t,
			picks:    []string{"Encrypt shows/active"},
			multi:    [][]string{{"ep1.mp3"}},
			confirms: []bool{true},
		}
		return backend, picker
	}

	started, stopped := 0, 0
	inhibitFn := func(context.Context) (func(), error) {
		started++
		return func() { stopped++ }, nil
	}

	backend, picker := newScenario()
	session, _ := newTestSession(t, Options{Mode: ModeRemoteMove, Commit: true, Junk: JunkOff},
		backend, picker, WithInhibitor(inhibitFn))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if started != 1 || stopped != 1 {
		t.Fatalf("commit run inhibitor start/stop = %d/%d, want 1/1", started, stopped)
	}

	backend, picker = newScenario()
	session, _ = newTestSession(t, Options{Mode: ModeRemoteMove, Commit: false, Junk: JunkOff},
		backend, picker, WithInhibitor(inhibitFn))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if started != 1 {
		t.Fatal("dry-run must not start the inhibitor")
	}
}
