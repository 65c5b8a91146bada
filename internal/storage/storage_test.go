package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	s := openTest(t)
	run := NewRunID()

	t.Run("Miss", func(t *testing.T) {
		r, ok, err := s.Get(kiwipete, 3)
		if err != nil || ok || r != nil {
			t.Errorf("Get on empty cache = %v, %v, %v", r, ok, err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		in := &Result{RunID: run, FEN: kiwipete, Depth: 3, Nodes: 97862, Elapsed: 40 * time.Millisecond}
		if err := s.Put(in); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if in.Recorded.IsZero() {
			t.Error("Put did not stamp the record time")
		}

		out, ok, err := s.Get(kiwipete, 3)
		if err != nil || !ok {
			t.Fatalf("Get = %v, %v", ok, err)
		}
		if out.Nodes != 97862 || out.RunID != run || out.Elapsed != in.Elapsed {
			t.Errorf("Get = %+v", out)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := s.Put(&Result{RunID: run, FEN: kiwipete, Depth: 3, Nodes: 1}); err != nil {
			t.Fatal(err)
		}
		out, _, _ := s.Get(kiwipete, 3)
		if out.Nodes != 1 {
			t.Errorf("Nodes = %d after overwrite, want 1", out.Nodes)
		}
	})

	t.Run("InvalidResult", func(t *testing.T) {
		if err := s.Put(&Result{FEN: kiwipete}); err == nil {
			t.Error("Put accepted depth 0")
		}
		if err := s.Put(&Result{Depth: 1}); err == nil {
			t.Error("Put accepted an empty FEN")
		}
	})
}

func TestResultsOrderedByDepth(t *testing.T) {
	s := openTest(t)
	run := NewRunID()

	for _, d := range []int{10, 2, 1} {
		if err := s.Put(&Result{RunID: run, FEN: kiwipete, Depth: d, Nodes: uint64(d)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Put(&Result{RunID: run, FEN: "8/8/8/8/8/8/8/K6k w - - 0 1", Depth: 1, Nodes: 3}); err != nil {
		t.Fatal(err)
	}

	results, err := s.Results(kiwipete)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(results))
	}
	for i, want := range []int{1, 2, 10} {
		if results[i].Depth != want {
			t.Errorf("results[%d].Depth = %d, want %d", i, results[i].Depth, want)
		}
	}

	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("len(All) = %d, want 4", len(all))
	}
}

func TestDeleteRun(t *testing.T) {
	s := openTest(t)
	first, second := NewRunID(), NewRunID()
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("run id %q: %v", first, err)
	}

	s.Put(&Result{RunID: first, FEN: kiwipete, Depth: 1, Nodes: 48})
	s.Put(&Result{RunID: first, FEN: kiwipete, Depth: 2, Nodes: 2039})
	s.Put(&Result{RunID: second, FEN: kiwipete, Depth: 3, Nodes: 97862})

	n, err := s.DeleteRun(first)
	if err != nil || n != 2 {
		t.Fatalf("DeleteRun = %d, %v", n, err)
	}
	results, _ := s.Results(kiwipete)
	if len(results) != 1 || results[0].RunID != second {
		t.Errorf("remaining = %+v", results)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir, err := GetCacheDir(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("GetCacheDir: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir not created: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Put(&Result{RunID: NewRunID(), FEN: kiwipete, Depth: 1, Nodes: 48}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	r, ok, err := s.Get(kiwipete, 1)
	if err != nil || !ok || r.Nodes != 48 {
		t.Errorf("Get after reopen = %+v, %v, %v", r, ok, err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	cacheDir, err := GetCacheDir("")
	if err != nil {
		t.Fatalf("GetCacheDir failed: %v", err)
	}
	if filepath.Dir(cacheDir) != dataDir {
		t.Errorf("cache dir %s is not under %s", cacheDir, dataDir)
	}
	t.Logf("Data directory: %s", dataDir)
}
