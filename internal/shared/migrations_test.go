package shared

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	t.Run("LoadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("loadMigrations() error = %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("no migrations embedded")
		}
		for _, migration := range migrations {
			if migration.Up == "" || migration.Down == "" {
				t.Errorf("migration %d incomplete", migration.Version)
			}
		}
	})

	t.Run("RunMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='tracks'").Scan(&name)
		if err != nil {
			t.Fatalf("tracks table missing after migration: %v", err)
		}

		version, err := getCurrentVersion(db)
		if err != nil {
			t.Fatalf("getCurrentVersion() error = %v", err)
		}
		if version != 0 {
			t.Errorf("current version = %d, want 0", version)
		}
	})

	t.Run("RunMigrationsIdempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run error = %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run error = %v", err)
		}
	})

	t.Run("Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("RollbackMigration() error = %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='tracks'").Scan(&name)
		if err == nil {
			t.Error("tracks table still present after rollback")
		}

		if version, _ := getCurrentVersion(db); version != -1 {
			t.Errorf("current version = %d, want -1 after rollback", version)
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("rollback with nothing applied should fail")
		}
	})
}

func TestRemoveComments(t *testing.T) {
	input := "CREATE TABLE t (\n  -- the id\n  id TEXT -- trailing\n)"
	want := "CREATE TABLE t (\nid TEXT\n)"
	if got := removeComments(input); got != want {
		t.Errorf("removeComments() = %q, want %q", got, want)
	}
}
