// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/audit-miner/internal/container"
)

// fakeConverter simulates a backend by writing the sibling .docx itself.
type fakeConverter struct {
	err   error
	calls []string
}

func (f *fakeConverter) Convert(docPath string) (string, error) {
	f.calls = append(f.calls, filepath.Base(docPath))
	if f.err != nil {
		return "", f.err
	}
	out := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".docx"
	if err := os.WriteFile(out, []byte("converted"), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("doc"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConvertBatch(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "a.doc"))
	touch(t, filepath.Join(tmp, "nested", "b.DOC"))
	touch(t, filepath.Join(tmp, "already.doc"))
	touch(t, filepath.Join(tmp, "already.docx"))
	touch(t, filepath.Join(tmp, "~$lock.doc"))
	touch(t, filepath.Join(tmp, "modern.docx"))

	fc := &fakeConverter{}
	var buf strings.Builder
	result, err := ConvertBatch(fc, tmp, &buf)
	if err != nil {
		t.Fatalf("ConvertBatch: %v", err)
	}

	if result.Converted != 2 || result.Skipped != 1 || result.Failed != 0 {
		t.Errorf("result = %+v, want 2 converted, 1 skipped", result)
	}
	if len(fc.calls) != 2 {
		t.Errorf("converter called for %v, want a.doc and b.DOC only", fc.calls)
	}
	if _, err := os.Stat(filepath.Join(tmp, "nested", "b.docx")); err != nil {
		t.Errorf("converted output missing: %v", err)
	}
	if !strings.Contains(buf.String(), "skipped: already.doc") {
		t.Errorf("output should mention the skip: %s", buf.String())
	}
}

func TestConvertBatchFailure(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "a.doc"))

	fc := &fakeConverter{err: errors.New("soffice crashed")}
	var buf strings.Builder
	result, err := ConvertBatch(fc, tmp, &buf)
	if err != nil {
		t.Fatalf("ConvertBatch: %v", err)
	}
	if result.Failed != 1 || !result.HasFailures() {
		t.Errorf("result = %+v, want 1 failed", result)
	}
	if !strings.Contains(buf.String(), "soffice crashed") {
		t.Errorf("output should carry the failure reason: %s", buf.String())
	}
}

func TestConvertBatchMissingDir(t *testing.T) {
	_, err := ConvertBatch(&fakeConverter{}, filepath.Join(t.TempDir(), "absent"), &strings.Builder{})
	if err == nil {
		t.Fatal("expected error for missing input dir")
	}
}

// fakeRuntime implements container.Runtime and creates the output file
// the way a real LibreOffice run would.
type fakeRuntime struct {
	imageErr error
	runErr   error
	lastArgs []string
	mounts   []container.Mount
}

func (f *fakeRuntime) Name() string             { return "docker" }
func (f *fakeRuntime) Available() bool          { return true }
func (f *fakeRuntime) ImageExists(string) error { return f.imageErr }

func (f *fakeRuntime) Run(image string, mounts []container.Mount, args ...string) error {
	f.mounts = mounts
	f.lastArgs = args
	if f.runErr != nil {
		return f.runErr
	}
	// The container writes the .docx into the mounted directory.
	src := args[len(args)-1]
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return os.WriteFile(filepath.Join(mounts[0].Host, base+".docx"), []byte("converted"), 0o644)
}

func TestLibreOfficeConverter(t *testing.T) {
	tmp := t.TempDir()
	docPath := filepath.Join(tmp, "report.doc")
	touch(t, docPath)

	rt := &fakeRuntime{}
	conv, err := NewLibreOfficeConverter(rt, "")
	if err != nil {
		t.Fatalf("NewLibreOfficeConverter: %v", err)
	}

	out, err := conv.Convert(docPath)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out != filepath.Join(tmp, "report.docx") {
		t.Errorf("output path = %q", out)
	}
	if len(rt.mounts) != 1 || rt.mounts[0].Host != tmp || rt.mounts[0].Container != "/work" {
		t.Errorf("mounts = %+v", rt.mounts)
	}
	want := []string{"--headless", "--convert-to", "docx", "--outdir", "/work", "/work/report.doc"}
	if strings.Join(rt.lastArgs, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", rt.lastArgs, want)
	}
}

func TestLibreOfficeConverterImageMissing(t *testing.T) {
	rt := &fakeRuntime{imageErr: errors.New("no such image")}
	if _, err := NewLibreOfficeConverter(rt, "custom:tag"); err == nil {
		t.Fatal("expected error when image is missing")
	}
}

func TestLibreOfficeConverterNoOutput(t *testing.T) {
	tmp := t.TempDir()
	docPath := filepath.Join(tmp, "report.doc")
	touch(t, docPath)

	// Run succeeds but produces nothing.
	conv, err := NewLibreOfficeConverter(&fakeRuntime{}, "")
	if err != nil {
		t.Fatal(err)
	}
	conv.runtime = &stubRuntime{}
	if _, err := conv.Convert(docPath); err == nil {
		t.Fatal("expected error when no output file appears")
	}
}

type stubRuntime struct{}

func (stubRuntime) Name() string                                  { return "docker" }
func (stubRuntime) Available() bool                               { return true }
func (stubRuntime) ImageExists(string) error                      { return nil }
func (stubRuntime) Run(string, []container.Mount, ...string) error {
	return nil
}
