package relocate_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"

	"sirsphoto/internal/fileutil"
	"sirsphoto/internal/relocate"
	"sirsphoto/internal/testsupport"
)

func TestMoverMovesSingleDestination(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "in/a.jpg", "obs1_pho2_chemin": "in/a.jpg"},
	)
	f.photo(t, "in/a.jpg", "alpha")
	plan := f.simulator().Baseline()

	stats, err := (&relocate.Mover{}).Apply(context.Background(), plan.Mapping)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stats.Moved != 1 || stats.Copied != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if fileutil.Exists(f.path("in/a.jpg")) {
		t.Fatal("source still present after move")
	}
	if got := testsupport.ReadFile(t, f.path("T1/a.jpg")); got != "alpha" {
		t.Fatalf("content = %q", got)
	}
}

func TestMoverCopiesFanOutAndRemovesSource(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "in/a.jpg"},
		map[string]string{"troncon": "T2", "obs1_pho1_chemin": "in/a.jpg"},
	)
	f.photo(t, "in/a.jpg", "shared")
	plan := f.simulator().Baseline()
	if need := relocate.RequiredBytes(plan.Mapping); need != uint64(2*len("shared")) {
		t.Fatalf("RequiredBytes = %d", need)
	}

	stats, err := (&relocate.Mover{}).Apply(context.Background(), plan.Mapping)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stats.Copied != 2 || stats.Removed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	for _, rel := range []string{"T1/a.jpg", "T2/a.jpg"} {
		if got := testsupport.ReadFile(t, f.path(rel)); got != "shared" {
			t.Fatalf("%s content = %q", rel, got)
		}
	}
	if fileutil.Exists(f.path("in/a.jpg")) {
		t.Fatal("source still present after fan-out")
	}
}

func TestMoverKeepsSourceThatIsADestination(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "T1/a.jpg"},
		map[string]string{"troncon": "T2", "obs1_pho1_chemin": "T1/a.jpg"},
	)
	f.photo(t, "T1/a.jpg", "kept")
	stats, err := (&relocate.Mover{}).Apply(context.Background(), f.simulator().Baseline().Mapping)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stats.Copied != 1 || stats.Removed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if !fileutil.Exists(f.path("T1/a.jpg")) || !fileutil.Exists(f.path("T2/a.jpg")) {
		t.Fatal("expected both copies on disk")
	}
}

func TestMoverFailsOnVanishedSource(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "in/a.jpg"},
	)
	f.photo(t, "in/a.jpg", "a")
	plan := f.simulator().Baseline()
	if err := os.Remove(f.path("in/a.jpg")); err != nil {
		t.Fatal(err)
	}

	_, err := (&relocate.Mover{}).Apply(context.Background(), plan.Mapping)
	if !errors.Is(err, relocate.ErrRelocationFailure) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected missing source failure, got %v", err)
	}
}

func TestMoverRenamesCaseOnlyChange(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "T1/IMG_0001.JPG"},
	)
	f.photo(t, "T1/IMG_0001.JPG", "raw")

	stats, err := (&relocate.Mover{}).Apply(context.Background(), f.simulator().Baseline().Mapping)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stats.Moved != 1 || stats.Unchanged != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	entries, err := os.ReadDir(f.path("T1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "IMG_0001.jpg" {
		t.Fatalf("unexpected entries %v", entries)
	}
}

func TestMoverResumesInterruptedFanOut(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "in/a.jpg"},
		map[string]string{"troncon": "T2", "obs1_pho1_chemin": "in/a.jpg"},
	)
	f.photo(t, "in/a.jpg", "same")
	f.photo(t, "T1/a.jpg", "same")
	stats, err := (&relocate.Mover{}).Apply(context.Background(), f.simulator().Baseline().Mapping)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stats.Copied != 1 || stats.Removed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMoverRefusesToOverwrite(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "in/a.jpg"},
	)
	f.photo(t, "in/a.jpg", "new")
	plan := f.simulator().Baseline()
	f.photo(t, "T1/a.jpg", "unrelated")

	_, err := (&relocate.Mover{}).Apply(context.Background(), plan.Mapping)
	if !errors.Is(err, relocate.ErrRelocationFailure) {
		t.Fatalf("expected relocation failure, got %v", err)
	}
	var relErr *relocate.RelocationError
	if !errors.As(err, &relErr) || relErr.Total != 1 || relErr.Completed != 0 {
		t.Fatalf("relocation error = %#v", err)
	}
	if got := testsupport.ReadFile(t, f.path("T1/a.jpg")); got != "unrelated" {
		t.Fatalf("destination overwritten: %q", got)
	}
	if !fileutil.Exists(f.path("in/a.jpg")) {
		t.Fatal("source removed after failure")
	}
}

func TestMoverHonorsCancelledContext(t *testing.T) {
	f := newFixture(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "in/a.jpg"},
	)
	f.photo(t, "in/a.jpg", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&relocate.Mover{}).Apply(ctx, f.simulator().Baseline().Mapping); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !fileutil.Exists(f.path("in/a.jpg")) {
		t.Fatal("file moved despite cancelled context")
	}
}
