// Package migrations holds the SQL schema, embedded so that the migrate
// command and integration tests apply the same files.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Step is one migration file.
type Step struct {
	Name string
	SQL  string
}

// Up returns the up migrations in apply order.
func Up() ([]Step, error) { return load(".up.sql", false) }

// Down returns the down migrations in apply order (newest first).
func Down() ([]Step, error) { return load(".down.sql", true) }

func load(suffix string, reverse bool) ([]Step, error) {
	names, err := fs.Glob(files, "*"+suffix)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	steps := make([]Step, 0, len(names))
	for _, n := range names {
		data, err := files.ReadFile(n)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Name: strings.TrimSuffix(n, suffix), SQL: string(data)})
	}
	return steps, nil
}
