package pack

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadMeta(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, MetaFileName),
		[]byte(`{"pack": {"pack_format": 13, "description": "§bOcean §rpack"}}`))

	m, err := ReadMeta(dir)
	if err != nil {
		t.Fatalf("ReadMeta failed: %v", err)
	}
	if m.Pack.PackFormat != 13 {
		t.Errorf("PackFormat = %d, want 13", m.Pack.PackFormat)
	}
	if m.Pack.Description != "§bOcean §rpack" {
		t.Errorf("Description = %q", m.Pack.Description)
	}
}

func TestReadMeta_StripsBOM(t *testing.T) {
	dir := t.TempDir()
	body := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"pack": {"pack_format": 15}}`)...)
	writeFile(t, filepath.Join(dir, MetaFileName), body)

	m, err := ReadMeta(dir)
	if err != nil {
		t.Fatalf("ReadMeta failed on BOM-prefixed file: %v", err)
	}
	if m.Pack.PackFormat != 15 {
		t.Errorf("PackFormat = %d, want 15", m.Pack.PackFormat)
	}
}

func TestReadMeta_Missing(t *testing.T) {
	_, err := ReadMeta(t.TempDir())
	if !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("err = %v, want ErrMissingMetadata", err)
	}
}

func TestVersionForFormat(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{6, "1.16.5"},
		{13, "1.19.4"},
		{15, "1.20.1"},
		{30, "1.21"},
		{99, ""},
	}
	for _, tt := range tests {
		if got := VersionForFormat(tt.code); got != tt.want {
			t.Errorf("VersionForFormat(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestParseDescription(t *testing.T) {
	segs := ParseDescription("plain §cred §ftext")

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %+v", len(segs), segs)
	}
	if segs[0].Text != "plain " {
		t.Errorf("segment 0 text = %q", segs[0].Text)
	}
	if segs[1].Text != "red " {
		t.Errorf("segment 1 text = %q", segs[1].Text)
	}
	if hex := segs[1].Color.Hex(); hex != "#ff5555" {
		t.Errorf("segment 1 color = %s, want #ff5555", hex)
	}
	if hex := segs[2].Color.Hex(); hex != "#ffffff" {
		t.Errorf("segment 2 color = %s, want #ffffff", hex)
	}
}

func TestParseDescription_UnknownCodeDropped(t *testing.T) {
	// §r (reset) is not a color code; it disappears without splitting.
	segs := ParseDescription("§ka§rb")
	if len(segs) != 1 || segs[0].Text != "ab" {
		t.Fatalf("got %+v, want single segment \"ab\"", segs)
	}
}

func TestCategoryDirs(t *testing.T) {
	want := map[Category]string{
		Block:    filepath.Join("assets", "minecraft", "textures", "block"),
		Item:     filepath.Join("assets", "minecraft", "textures", "item"),
		Entity:   filepath.Join("assets", "minecraft", "textures", "entity"),
		GUI:      filepath.Join("assets", "minecraft", "textures", "gui"),
		Particle: filepath.Join("assets", "minecraft", "textures", "particle"),
	}
	for c, dir := range want {
		if got := c.Dir(); got != dir {
			t.Errorf("%s.Dir() = %q, want %q", c, got, dir)
		}
	}
}

func TestTextures(t *testing.T) {
	dir := t.TempDir()
	blockDir := filepath.Join(dir, Block.Dir())
	writeFile(t, filepath.Join(blockDir, "stone.png"), []byte("x"))
	writeFile(t, filepath.Join(blockDir, "dirt.png"), []byte("x"))
	writeFile(t, filepath.Join(blockDir, "sub", "ore.png"), []byte("x"))
	writeFile(t, filepath.Join(blockDir, "notes.txt"), []byte("x"))

	got, err := Textures(dir, Block, "")
	if err != nil {
		t.Fatalf("Textures failed: %v", err)
	}
	want := []string{"dirt.png", "stone.png", "sub/ore.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("textures mismatch (-want +got):\n%s", diff)
	}

	got, err = Textures(dir, Block, "ORE")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"sub/ore.png"}, got); diff != "" {
		t.Errorf("filtered mismatch (-want +got):\n%s", diff)
	}

	// Absent category directory is not an error.
	got, err = Textures(dir, Particle, "")
	if err != nil || got != nil {
		t.Errorf("absent category: got (%v, %v), want (nil, nil)", got, err)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for name, body := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "pack.zip")
	writeZip(t, zipPath, map[string]string{
		MetaFileName:                      `{"pack": {"pack_format": 13}}`,
		"assets/minecraft/textures/b.png": "img",
	})

	dest := filepath.Join(dir, "out")
	if err := Extract(zipPath, dest); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, MetaFileName)); err != nil {
		t.Errorf("pack.mcmeta not extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "assets", "minecraft", "textures", "b.png")); err != nil {
		t.Errorf("texture not extracted: %v", err)
	}
}

func TestExtract_RejectsPackWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "notapack.zip")
	writeZip(t, zipPath, map[string]string{"readme.txt": "hello"})

	dest := filepath.Join(dir, "out")
	err := Extract(zipPath, dest)
	if err == nil {
		t.Fatal("Extract should reject an archive without pack.mcmeta")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination should not be created for an invalid pack")
	}
}

func TestExtract_RejectsZipSlip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")
	writeZip(t, zipPath, map[string]string{
		MetaFileName:    `{"pack": {"pack_format": 13}}`,
		"../escape.txt": "boom",
	})

	if err := Extract(zipPath, filepath.Join(dir, "out")); err == nil {
		t.Fatal("Extract should reject entries escaping the destination")
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Error("escaped file was written")
	}
}
