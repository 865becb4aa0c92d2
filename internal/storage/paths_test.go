package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDataDir(t *testing.T) {
	home := func() (string, error) { return "/home/ada", nil }

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{"override", "linux", map[string]string{EnvDataDir: "/srv/chess"}, "/srv/chess"},
		{"xdg", "linux", map[string]string{"XDG_DATA_HOME": "/data"}, filepath.Join("/data", appName)},
		{"linux default", "linux", nil, filepath.Join("/home/ada", ".local", "share", appName)},
		{"macos", "darwin", nil, filepath.Join("/home/ada", "Library", "Application Support", appName)},
		{"windows appdata", "windows", map[string]string{"APPDATA": "/appdata"}, filepath.Join("/appdata", appName)},
		{"windows default", "windows", nil, filepath.Join("/home/ada", "AppData", "Roaming", appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			got, err := resolveDataDir(tt.goos, getenv, home)
			if err != nil {
				t.Fatalf("resolveDataDir: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveDataDirNoHome(t *testing.T) {
	noHome := func() (string, error) { return "", errors.New("no home") }
	getenv := func(string) string { return "" }
	if _, err := resolveDataDir("darwin", getenv, noHome); err == nil {
		t.Error("expected an error without a home directory")
	}
}

func TestGetDatabaseDir(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvDataDir, root)

	dir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir: %v", err)
	}
	if dir != filepath.Join(root, "db") {
		t.Errorf("got %s, want %s", dir, filepath.Join(root, "db"))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("database dir not created: %v", err)
	}
}
