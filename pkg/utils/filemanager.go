// =============================================================================
// OTM Order Generator - File Manager Utility
// =============================================================================
//
// This module writes the artifacts of a run:
//   - One XML file per order ({order_id}.xml)
//   - A ZIP archive holding every order document
//   - Output file naming from a format string
//
// NAMING:
//   - Order ids may repeat inside a batch (no release suffix). Repeated names
//     get -2, -3, ... before the extension so nothing is overwritten.
//   - Path separators in order ids are replaced with "_".
//
// =============================================================================

package utils

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/google/uuid"
)

// Archive name prefixes for the two commands.
const (
	GeneratePrefix = "otm_orders"
	ImportPrefix   = "otm_orders_import"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes run output below a single directory.
type FileManager struct {
	// OutputDir receives the archive, the XML files and reports.
	OutputDir string

	// ArchiveNameFormat is passed to GenerateOutputFileName.
	ArchiveNameFormat string

	// RunID fills the {uuid} placeholder when set.
	RunID string
}

// NewFileManager creates a FileManager for outputDir.
func NewFileManager(outputDir, archiveNameFormat string) *FileManager {
	if archiveNameFormat == "" {
		archiveNameFormat = "{prefix}_{timestamp}.zip"
	}
	return &FileManager{
		OutputDir:         outputDir,
		ArchiveNameFormat: archiveNameFormat,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// Path joins name onto the output directory.
func (fm *FileManager) Path(name string) string {
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// ORDER DOCUMENTS
// =============================================================================

// WriteDocuments writes one XML file per payload.
//
// RETURNS:
//   - The written paths, in payload order.
//   - An error if any file cannot be written.
func (fm *FileManager) WriteDocuments(payloads []types.Payload) ([]string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return nil, err
	}

	names := DocumentNames(payloads)
	paths := make([]string, 0, len(payloads))

	for i, p := range payloads {
		path := fm.Path(names[i])
		if err := os.WriteFile(path, p.XML, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// WriteArchive stores every payload document in a ZIP archive.
//
// PARAMETERS:
//   - prefix: GeneratePrefix or ImportPrefix, substituted for {prefix}
//   - payloads: the documents to store
//
// RETURNS:
//   - The archive path.
//   - An error if the archive cannot be written.
func (fm *FileManager) WriteArchive(prefix string, payloads []types.Payload) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	params := map[string]string{"prefix": prefix}
	if fm.RunID != "" {
		params["uuid"] = fm.RunID
	}
	name := GenerateOutputFileName(fm.ArchiveNameFormat, time.Now(), params)
	path := fm.Path(name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer file.Close()

	zw := zip.NewWriter(file)
	names := DocumentNames(payloads)

	for i, p := range payloads {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     names[i],
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return "", fmt.Errorf("failed to add %s to archive: %w", names[i], err)
		}
		if _, err := w.Write(p.XML); err != nil {
			return "", fmt.Errorf("failed to add %s to archive: %w", names[i], err)
		}
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := file.Sync(); err != nil {
		return "", fmt.Errorf("failed to flush archive: %w", err)
	}

	return path, nil
}

// DocumentNames returns a unique "{order_id}.xml" name per payload.
func DocumentNames(payloads []types.Payload) []string {
	taken := make(map[string]bool, len(payloads))
	names := make([]string, 0, len(payloads))

	for _, p := range payloads {
		base := safeName(p.OrderID)
		name := base
		for n := 2; taken[name]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		taken[name] = true
		names = append(names, name+".xml")
	}

	return names
}

func safeName(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "order"
	}
	return strings.NewReplacer("/", "_", "\\", "_").Replace(id)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {prefix}    - Archive prefix (from params)
//     {timestamp} - Unix seconds
//     {date}      - Date (YYYYMMDD)
//     {uuid}      - A random UUID unless params sets it
//   - now: the time used for {timestamp} and {date}
//   - params: additional placeholder values
//
// RETURNS:
//   - The generated file name, always ending in ".zip".
//
// EXAMPLE:
//
//	format: "{prefix}_{timestamp}.zip"
//	params: {"prefix": "otm_orders"}
//	output: "otm_orders_1735787045.zip"
func GenerateOutputFileName(format string, now time.Time, params map[string]string) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": strconv.FormatInt(now.Unix(), 10),
		"{date}":      now.Format("20060102"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".zip") {
		result += ".zip"
	}

	return result
}
