// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"encoding/json"
	"strings"
)

// Database is one entry of GET /api/database.
type Database struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Engine string `json:"engine"`
}

// SchemaMetadata is the body of GET /api/database/{id}/metadata.
// Pointer fields are ones the server may omit or send as null.
type SchemaMetadata struct {
	DatabaseID int     `json:"id"`
	Name       *string `json:"name"`
	Engine     string  `json:"engine"`
	Tables     []Table `json:"tables"`
}

// DatabaseName returns the database name, or "Unknown" when the server sent none.
func (m *SchemaMetadata) DatabaseName() string {
	if m.Name == nil {
		return "Unknown"
	}
	return *m.Name
}

// ColumnCount returns the number of fields across all tables.
func (m *SchemaMetadata) ColumnCount() int {
	n := 0
	for _, t := range m.Tables {
		n += len(t.Fields)
	}
	return n
}

// Table is a table entry in SchemaMetadata.
type Table struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Schema      *string `json:"schema"`
	DisplayName *string `json:"display_name"`
	Fields      []Field `json:"fields"`
}

// Namespace returns the table schema, defaulting to "public".
func (t Table) Namespace() string {
	if t.Schema == nil {
		return "public"
	}
	return *t.Schema
}

// Label returns the display name, defaulting to the raw table name.
func (t Table) Label() string {
	if t.DisplayName == nil {
		return t.Name
	}
	return *t.DisplayName
}

// Field is a column entry in Table.
type Field struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	DisplayName  *string `json:"display_name"`
	BaseType     *string `json:"base_type"`
	SemanticType *string `json:"semantic_type"`
	Description  *string `json:"description"`
}

// typePrefix is the namespace Metabase puts in front of every type keyword.
const typePrefix = "type/"

// TypeDescriptor renders the base type without its "type/" prefix ("unknown"
// when absent), followed by the semantic type in brackets when one is set.
func (f Field) TypeDescriptor() string {
	base := "unknown"
	if f.BaseType != nil {
		base = *f.BaseType
	}
	info := strings.ReplaceAll(base, typePrefix, "")
	if f.SemanticType != nil {
		if semantic := strings.ReplaceAll(*f.SemanticType, typePrefix, ""); semantic != "" {
			info += " [" + semantic + "]"
		}
	}
	return info
}

// DescriptionText returns the description or "".
func (f Field) DescriptionText() string {
	if f.Description == nil {
		return ""
	}
	return *f.Description
}

// User is the body of GET /api/user/current.
type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	CommonName  string `json:"common_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Identifier returns the most readable identifier available for the user.
func (u *User) Identifier() string {
	switch {
	case u.Email != "":
		return u.Email
	case u.CommonName != "":
		return u.CommonName
	default:
		return "user"
	}
}

// QueryColumn is one entry of data.cols in a dataset response.
type QueryColumn struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	BaseType    string `json:"base_type"`
}

// Label returns the display name, falling back to the column name.
func (c QueryColumn) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// QueryData is the data member of a completed dataset response.
type QueryData struct {
	Rows [][]any       `json:"rows"`
	Cols []QueryColumn `json:"cols"`
}

// QueryResult is the outcome of ExecuteSQL.
// Body always holds the response exactly as received. Data, Rows and Columns
// are only filled for synchronous (200) results.
type QueryResult struct {
	StatusCode int
	Accepted   bool
	Body       json.RawMessage
	Data       *QueryData
	Rows       int
	Columns    int
}

// ValidationResult is the outcome of a heuristic SQL check.
// Skipped is set when no metadata was available and the check passed by default.
type ValidationResult struct {
	Valid   bool
	Issues  []string
	Skipped bool
}
