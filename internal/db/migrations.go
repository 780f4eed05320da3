package db

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	embeddedmigrations "github.com/terraincognita07/labcheck/migrations"
	"gorm.io/gorm"
)

var (
	migrationFilePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	createTriggerPattern = regexp.MustCompile(`(?i)^CREATE\s+(TEMP\s+|TEMPORARY\s+)?TRIGGER\b`)
)

// schemaMigration is one applied migration file.
type schemaMigration struct {
	Version   int       `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name"`
	Checksum  string    `gorm:"column:checksum"`
	AppliedAt time.Time `gorm:"column:applied_at;autoCreateTime"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migrationFile struct {
	version    int
	name       string
	checksum   string
	statements []string
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	return applyMigrations(database, embeddedmigrations.Files)
}

// applyMigrations runs the files of source that are not recorded yet, in
// version order. A recorded file whose content changed is an error.
func applyMigrations(database *gorm.DB, source fs.FS) error {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  checksum TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if err := database.Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	files, err := readMigrationFiles(source)
	if err != nil {
		return err
	}

	var applied []schemaMigration
	if err := database.Order("version").Find(&applied).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	recorded := make(map[int]schemaMigration, len(applied))
	for _, migration := range applied {
		recorded[migration.Version] = migration
	}

	for _, file := range files {
		if previous, ok := recorded[file.version]; ok {
			if previous.Checksum != file.checksum {
				return fmt.Errorf("migration %s changed after it was applied", file.name)
			}
			continue
		}
		if err := database.Transaction(func(tx *gorm.DB) error {
			for _, statement := range file.statements {
				if err := tx.Exec(statement).Error; err != nil {
					return fmt.Errorf("execute migration %s statement %q: %w", file.name, firstLine(statement), err)
				}
			}
			return tx.Create(&schemaMigration{Version: file.version, Name: file.name, Checksum: file.checksum}).Error
		}); err != nil {
			return err
		}
	}
	return nil
}

// readMigrationFiles parses every NNNN_name.sql file of source.
func readMigrationFiles(source fs.FS) ([]migrationFile, error) {
	names, err := fs.Glob(source, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	files := make([]migrationFile, 0, len(names))
	byVersion := make(map[int]string, len(names))
	for _, name := range names {
		matches := migrationFilePattern.FindStringSubmatch(name)
		if matches == nil {
			return nil, fmt.Errorf("migration file %s does not match NNNN_name.sql", name)
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version of %s: %w", name, err)
		}
		if other, exists := byVersion[version]; exists {
			return nil, fmt.Errorf("migrations %s and %s share version %d", other, name, version)
		}
		byVersion[version] = name

		raw, err := fs.ReadFile(source, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements, err := splitSQLStatements(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse migration %s: %w", name, err)
		}
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no statements", name)
		}
		sum := sha256.Sum256(raw)
		files = append(files, migrationFile{
			version:    version,
			name:       name,
			checksum:   hex.EncodeToString(sum[:]),
			statements: statements,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].version < files[j].version
	})
	return files, nil
}

// splitSQLStatements splits a migration on semicolons. Trigger bodies keep
// their inner statements until the closing END.
func splitSQLStatements(sqlText string) ([]string, error) {
	rawParts := strings.Split(sqlText, ";")
	statements := make([]string, 0, len(rawParts))

	var trigger []string
	for _, rawPart := range rawParts {
		statement := strings.TrimSpace(rawPart)
		if trigger != nil {
			trigger = append(trigger, statement)
			if strings.EqualFold(statement, "END") {
				statements = append(statements, strings.Join(trigger, ";\n"))
				trigger = nil
			}
			continue
		}
		if statement == "" {
			continue
		}
		if createTriggerPattern.MatchString(statement) {
			trigger = []string{statement}
			continue
		}
		statements = append(statements, statement)
	}

	if trigger != nil {
		return nil, fmt.Errorf("trigger %q is missing END", firstLine(trigger[0]))
	}
	return statements, nil
}

func firstLine(statement string) string {
	if index := strings.IndexByte(statement, '\n'); index >= 0 {
		return statement[:index]
	}
	return statement
}
