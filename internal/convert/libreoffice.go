// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/audit-miner/internal/container"
)

// DefaultImage is the LibreOffice container image used for conversion.
const DefaultImage = "libreoffice-headless:latest"

const workDir = "/work"

// LibreOfficeConverter converts .doc files by mounting their parent
// directory into a headless LibreOffice container. It depends on a
// container.Runtime (docker or podman) injected at construction time.
type LibreOfficeConverter struct {
	runtime container.Runtime
	image   string
}

// NewLibreOfficeConverter creates a converter that uses the given
// container runtime. It verifies that the image exists locally before
// returning. An empty image selects DefaultImage.
func NewLibreOfficeConverter(rt container.Runtime, image string) (*LibreOfficeConverter, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("conversion image not available in %s: %w", rt.Name(), err)
	}
	return &LibreOfficeConverter{runtime: rt, image: image}, nil
}

// Convert runs LibreOffice against the document's directory and returns
// the path of the produced .docx file.
func (l *LibreOfficeConverter) Convert(docPath string) (string, error) {
	absPath, err := filepath.Abs(docPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", docPath, err)
	}
	dir := filepath.Dir(absPath)
	base := filepath.Base(absPath)

	err = l.runtime.Run(l.image,
		[]container.Mount{{Host: dir, Container: workDir}},
		"--headless", "--convert-to", "docx", "--outdir", workDir,
		workDir+"/"+base,
	)
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", base, err)
	}

	outPath := strings.TrimSuffix(absPath, filepath.Ext(absPath)) + ".docx"
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("conversion produced no output for %s: %w", base, err)
	}
	return outPath, nil
}
