package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/terraincognita07/labcheck/internal/services"
)

const (
	legacyInitialStateFile = "state-initial.json"
	legacyDayFilePrefix    = "day-"
	legacyDayFileSuffix    = ".json"
)

// importLegacyDirectory loads state-initial.json, when present, and then every
// day-YYYY-MM-DD.json of dir in date order.
func importLegacyDirectory(s *store, dir string, out io.Writer) error {
	initialPath := filepath.Join(dir, legacyInitialStateFile)
	raw, err := os.ReadFile(initialPath)
	switch {
	case err == nil:
		state, err := services.DecodeLegacyDayData(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", initialPath, err)
		}
		result, err := s.legacy.ImportLegacyInitial(state)
		if err != nil {
			return fmt.Errorf("%s: %w", initialPath, err)
		}
		fmt.Fprintf(out, "%s: %d doctors, %d blocks, %d tasks added\n", legacyInitialStateFile, result.DoctorsAdded, result.BlocksAdded, result.TasksAdded)
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("read %s: %w", initialPath, err)
	}

	days, err := legacyDayFiles(dir)
	if err != nil {
		return err
	}
	total := 0
	for _, day := range days {
		path := filepath.Join(dir, legacyDayFilePrefix+day+legacyDayFileSuffix)
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		file, err := services.DecodeLegacyDayFile(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		result, err := s.legacy.ImportLegacyDay(file, day)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		total += result.Reports
		fmt.Fprintf(out, "%s: %d reports\n", filepath.Base(path), result.Reports)
	}

	fmt.Fprintf(out, "Imported %d day files, %d reports\n", len(days), total)
	return nil
}

// legacyDayFiles lists the days of dir that have a day file, oldest first.
func legacyDayFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	days := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, legacyDayFilePrefix) || !strings.HasSuffix(name, legacyDayFileSuffix) {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, legacyDayFilePrefix), legacyDayFileSuffix)
		if _, err := services.ParseDay(day); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		days = append(days, day)
	}
	sort.Strings(days)
	return days, nil
}

// exportDay writes the day document to outputPath, or to out when outputPath
// is blank or "-". A blank day means today.
func exportDay(s *store, day string, outputPath string, out io.Writer) error {
	if strings.TrimSpace(day) == "" {
		day = s.clock.Today()
	}
	file, err := s.legacy.ExportDay(day)
	if err != nil {
		return fmt.Errorf("export %s: %w", day, err)
	}
	encoded, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode day document: %w", err)
	}
	encoded = append(encoded, '\n')

	if outputPath == "" || outputPath == "-" {
		_, err := out.Write(encoded)
		return err
	}
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	fmt.Fprintf(out, "Wrote %d doctors to %s\n", len(file), outputPath)
	return nil
}
