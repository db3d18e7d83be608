// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"context"
	"regexp"
	"strings"
)

// tableRefPattern captures the identifier right after FROM or JOIN, optionally
// schema-qualified. Aliases, CTEs, subqueries and quoted names are out of reach.
var tableRefPattern = regexp.MustCompile(`\b(?:from|join)\s+([a-z_][a-z0-9_]*(?:\.[a-z_][a-z0-9_]*)?)\b`)

// TableLookup maps lowercased "table" and "schema.table" names to their
// lowercased column names.
type TableLookup map[string][]string

// NewTableLookup indexes every table of md under its bare and qualified name.
func NewTableLookup(md *SchemaMetadata) TableLookup {
	lookup := make(TableLookup, 2*len(md.Tables))
	for _, t := range md.Tables {
		name := strings.ToLower(t.Name)
		full := strings.ToLower(t.Namespace()) + "." + name

		columns := make([]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			columns = append(columns, strings.ToLower(f.Name))
		}
		lookup[name] = columns
		lookup[full] = columns
	}
	return lookup
}

// ReferencedTables returns every FROM/JOIN target in sql, lowercased, in order
// of appearance. Duplicates are kept.
func ReferencedTables(sql string) []string {
	matches := tableRefPattern.FindAllStringSubmatch(strings.ToLower(sql), -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ValidateAgainst checks that every FROM/JOIN target in sql names a table of md.
func ValidateAgainst(md *SchemaMetadata, sql string) ValidationResult {
	lookup := NewTableLookup(md)
	res := ValidationResult{Valid: true}
	for _, table := range ReferencedTables(sql) {
		if _, ok := lookup[table]; !ok {
			res.Issues = append(res.Issues, "Table not found: "+table)
		}
	}
	res.Valid = len(res.Issues) == 0
	return res
}

// ValidateSQL checks sql against the schema of a database.
// When metadata cannot be obtained the check passes with Skipped set, so an
// unavailable schema never blocks execution.
func (c *Client) ValidateSQL(ctx context.Context, databaseID int, sql string) ValidationResult {
	md, err := c.GetDatabaseMetadata(ctx, databaseID, false)
	if err != nil {
		c.say("⚠️  No schema available for validation")
		return ValidationResult{Valid: true, Skipped: true}
	}

	res := ValidateAgainst(md, sql)
	if !res.Valid {
		c.say("⚠️  SQL Validation Issues:")
		for _, issue := range res.Issues {
			c.say("   - %s", issue)
		}
		return res
	}
	c.say("✅ SQL validation passed")
	return res
}
