// Package entity resolves contract entity names against the approved
// entity directory.
package entity

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/contractcheck/internal/core"
)

// Postgres looks entities up in a database table with an entity_name column.
type Postgres struct {
	db    core.DBTX
	table pgx.Identifier
}

// NewPostgres creates a lookup over table, which may be schema qualified
// ("abc_db.entity_mapping").
func NewPostgres(db core.DBTX, table string) *Postgres {
	return &Postgres{db: db, table: pgx.Identifier(strings.Split(table, "."))}
}

// Lookup returns the stored entity name, or core.ErrEntityNotFound.
func (p *Postgres) Lookup(ctx context.Context, name string) (string, error) {
	query := "SELECT entity_name FROM " + p.table.Sanitize() + " WHERE entity_name = $1"

	var entity string
	err := p.db.QueryRow(ctx, query, name).Scan(&entity)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", core.ErrEntityNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query entity %s: %w", name, err)
	}
	return entity, nil
}

// File is an entity directory kept in memory, usually loaded from a text
// file with one entity per line.
type File struct {
	names map[string]string
}

// NewFile creates a directory of the given entity names.
func NewFile(names ...string) *File {
	f := &File{names: make(map[string]string, len(names))}
	for _, n := range names {
		f.add(n)
	}
	return f
}

// LoadFile reads entity names from path. Blank lines and lines starting
// with # are ignored.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open entity file: %w", err)
	}
	defer fh.Close()

	f := NewFile()
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f.add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read entity file: %w", err)
	}
	return f, nil
}

func (f *File) add(name string) {
	name = strings.TrimSpace(name)
	if name != "" {
		f.names[strings.ToUpper(name)] = name
	}
}

// Len returns the number of entities.
func (f *File) Len() int { return len(f.names) }

// Lookup matches name case-insensitively.
func (f *File) Lookup(_ context.Context, name string) (string, error) {
	if entity, ok := f.names[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return entity, nil
	}
	return "", core.ErrEntityNotFound
}
