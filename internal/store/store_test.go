package store

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordInstallUpsert(t *testing.T) {
	db := openTestDB(t)

	count, err := db.InstallCount("cpi-tracker")
	if err != nil {
		t.Fatalf("InstallCount: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh count = %d, want 0", count)
	}

	for i := 0; i < 3; i++ {
		if err := db.RecordInstall("cpi-tracker"); err != nil {
			t.Fatalf("RecordInstall: %v", err)
		}
	}
	count, err = db.InstallCount("cpi-tracker")
	if err != nil {
		t.Fatalf("InstallCount: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestInstallCounts(t *testing.T) {
	db := openTestDB(t)
	db.RecordInstall("a")
	db.RecordInstall("a")
	db.RecordInstall("b")

	counts, err := db.InstallCounts()
	if err != nil {
		t.Fatalf("InstallCounts: %v", err)
	}
	if counts["a"] != 2 || counts["b"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts["never"]; ok {
		t.Error("uninstalled skill should not appear")
	}
}

func TestBuildHistory(t *testing.T) {
	db := openTestDB(t)

	run, err := db.LastBuild()
	if err != nil {
		t.Fatalf("LastBuild: %v", err)
	}
	if run != nil {
		t.Errorf("empty history should yield nil, got %+v", run)
	}

	db.RecordBuild(10, 1, 0)
	db.RecordBuild(12, 0, 2)

	run, err = db.LastBuild()
	if err != nil {
		t.Fatalf("LastBuild: %v", err)
	}
	if run == nil || run.Total != 12 || run.Warnings != 2 {
		t.Errorf("last build = %+v", run)
	}
	if run.Ts == "" {
		t.Error("build run should carry a timestamp")
	}

	history, err := db.BuildHistory(5)
	if err != nil {
		t.Fatalf("BuildHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history len = %d", len(history))
	}
	// newest first
	if history[0].Total != 12 || history[1].Total != 10 {
		t.Errorf("history order = %+v", history)
	}

	history, _ = db.BuildHistory(1)
	if len(history) != 1 || history[0].Total != 12 {
		t.Errorf("limited history = %+v", history)
	}
}

func TestOpenCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "skillmart.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.RecordInstall("x"); err != nil {
		t.Fatalf("RecordInstall on fresh file db: %v", err)
	}
	count, _ := db.InstallCount("x")
	if count != 1 {
		t.Errorf("count = %d", count)
	}
}
