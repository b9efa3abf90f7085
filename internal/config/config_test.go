package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/absensi/absensi/internal/config"
	"github.com/absensi/absensi/internal/config/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsensiValidate(t *testing.T) {
	a := config.Absensi{
		BaseURL:            "https://api.example.com/",
		RowsPerPage:        25,
		RowsPerPageOptions: []int{20, 0, 10, 20},
	}
	a.Validate()

	assert.Equal(t, "https://api.example.com", a.BaseURL)
	assert.Equal(t, []int{10, 20, 25}, a.RowsPerPageOptions)
	assert.Equal(t, 30*time.Second, a.Timeout())
	assert.Equal(t, 30*time.Second, a.RefreshDuration())
	assert.Equal(t, config.DefaultProfile, a.ActiveProfile)

	var b config.Absensi
	b.Validate()
	assert.Equal(t, config.DefaultBaseURL, b.BaseURL)
	assert.Equal(t, 10, b.RowsPerPage)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, b.RowsPerPageOptions)
}

func TestConfigLoadRefine(t *testing.T) {
	dir := t.TempDir()
	data.SetDefaultProfilesDir(filepath.Join(dir, "profiles"))
	path := filepath.Join(dir, "absensi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`absensi:
  baseURL: https://file.example.com/api
  rowsPerPage: 20
  timeoutSeconds: 5
  activeProfile: work
`), 0600))

	cfg := config.NewConfig()
	require.NoError(t, cfg.Load(path, true))
	assert.Equal(t, "https://file.example.com/api", cfg.Absensi.BaseURL)
	assert.Equal(t, float32(config.DefaultRefreshRate), cfg.Absensi.RefreshRate)

	flags := config.NewFlags()
	*flags.BaseURL = "http://flag.example.com"
	*flags.RowsPerPage = 15
	require.NoError(t, cfg.Refine(flags))

	a := cfg.Absensi
	assert.Equal(t, "http://flag.example.com", a.BaseURL)
	assert.Equal(t, 15, a.RowsPerPage)
	assert.Contains(t, a.RowsPerPageOptions, 15)
	assert.Equal(t, 5*time.Second, a.Timeout())
	assert.Equal(t, "work", a.ActiveProfile)
	require.NotNil(t, a.ActiveConfig())
	assert.Equal(t, "work", a.ActiveConfig().GetContext().ProfileName)
}

func TestConfigLoadMissing(t *testing.T) {
	cfg := config.NewConfig()
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	require.NoError(t, cfg.Load(missing, false))
	assert.Error(t, cfg.Load(missing, true))
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "absensi.yaml")
	cfg := config.NewConfig()
	cfg.Absensi.Export.Bucket = "reports"

	require.NoError(t, cfg.SaveTo(path, false))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, cfg.SaveTo(path, true))
	back := config.NewConfig()
	require.NoError(t, back.Load(path, true))
	assert.Equal(t, "reports", back.Absensi.Export.Bucket)
	assert.True(t, back.Absensi.Export.Enabled())

	assert.ErrorIs(t, cfg.SaveTo("", true), config.ErrNoConfigPath)
}

func TestProfileState(t *testing.T) {
	d := data.NewDirAt(t.TempDir())

	cfg, err := d.Load("intern ops")
	require.NoError(t, err)
	ctx := cfg.GetContext()
	assert.Equal(t, data.DefaultView, ctx.GetView().Active)

	ctx.SetView(&data.View{Active: "users"})
	ctx.SetTable("users", data.TableState{RowsPerPage: 20, SortKey: "name", SortRule: "asc"})
	require.NoError(t, d.Save(cfg))

	back, err := d.Load("intern ops")
	require.NoError(t, err)
	ts, ok := back.GetContext().Table("users")
	require.True(t, ok)
	assert.Equal(t, 20, ts.RowsPerPage)
	assert.Equal(t, "users", back.GetContext().GetView().Active)

	names, err := d.ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"intern-ops"}, names)
}

func TestAliases(t *testing.T) {
	a := config.NewAliases()
	assert.Equal(t, "users", a.Get("U"))
	assert.Equal(t, "attendance", a.Get("absensi"))
	assert.Equal(t, "roles", a.Get("roles"))

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  staff: users\n"), 0600))
	require.NoError(t, a.LoadFrom(path))
	assert.Equal(t, "users", a.Get("staff"))
	assert.Equal(t, []string{"pengguna", "staff", "u", "user"}, a.ByTarget()["users"])

	require.NoError(t, a.LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestHotKeys(t *testing.T) {
	h := config.NewHotKeys()
	hk, ok := h.ByShortCut("4")
	require.True(t, ok)
	assert.Equal(t, "attendance", hk.Command)
	assert.Equal(t, "dashboard", h.Names()[0])

	path := filepath.Join(t.TempDir(), "hotkeys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`hotKeys:
  attendance:
    shortCut: "9"
    description: Absensi
    command: attendance
  divisions:
    shortCut: "8"
    description: Divisi
`), 0600))
	require.NoError(t, h.LoadFrom(path))
	_, ok = h.ByShortCut("4")
	assert.False(t, ok)
	assert.NotNil(t, h.Get("users"))
	hk, ok = h.ByShortCut("8")
	require.True(t, ok)
	assert.Equal(t, "divisions", hk.Command)

	require.NoError(t, h.LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")))
}
