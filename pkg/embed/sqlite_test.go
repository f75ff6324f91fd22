package kea

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// userStore is the kind of host object an application binds into scripts:
// a thin repository over database/sql.
type userStore struct {
	db *sql.DB
}

func (s *userStore) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func (s *userStore) NameOf(id int64) (string, error) {
	var name string
	err := s.db.QueryRow("SELECT name FROM users WHERE id = ?", id).Scan(&name)
	return name, err
}

func (s *userStore) Add(name string) (int64, error) {
	res, err := s.db.Exec("INSERT INTO users (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func newUserStore(t *testing.T) *userStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)"); err != nil {
		t.Fatal(err)
	}
	return &userStore{db: db}
}

func TestScriptDrivesDatabaseStore(t *testing.T) {
	engine := New()
	engine.Set("store", newUserStore(t))

	src := `
var id = store.add('ada')
store.add('grace')
store.nameOf(id)`
	got, err := engine.Eval(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ada" {
		t.Errorf("got %v, want ada", got)
	}

	count, err := engine.Eval("store.count()")
	if err != nil {
		t.Fatal(err)
	}
	if count != int64(2) {
		t.Errorf("count = %v, want 2", count)
	}
}

func TestDatabaseErrorsReachScripts(t *testing.T) {
	engine := New()
	engine.Set("store", newUserStore(t))

	// No such row: the trailing error from the host method must surface.
	if _, err := engine.Eval("store.nameOf(999)"); err == nil {
		t.Error("want error for missing row")
	}
}
