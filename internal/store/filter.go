// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package store

import (
	"strings"
	"time"
)

// RangeFilter narrows list queries by timestamp ranges and applies an
// ordering. All bounds are optional and inclusive. Term bounds only apply
// to tasks; other entities ignore them.
type RangeFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
	TermFrom    *time.Time
	TermTo      *time.Time

	// Ordering is an entity field name, optionally prefixed with '-' for
	// descending. Unknown fields fall back to the entity default.
	Ordering string
}

// whereClause builds the WHERE fragment for the filter. hasUpdated and
// hasTerm state which timestamp columns the entity carries.
func (f RangeFilter) whereClause(hasUpdated, hasTerm bool) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, val *time.Time) {
		if val != nil {
			conds = append(conds, cond)
			args = append(args, *val)
		}
	}

	add("created >= ?", f.CreatedFrom)
	add("created <= ?", f.CreatedTo)
	if hasUpdated {
		add("updated >= ?", f.UpdatedFrom)
		add("updated <= ?", f.UpdatedTo)
	}
	if hasTerm {
		add("term >= ?", f.TermFrom)
		add("term <= ?", f.TermTo)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause builds the ORDER BY fragment. Column names are checked
// against the per-entity whitelist so the ordering parameter can never
// reach SQL verbatim.
func (f RangeFilter) orderClause(allowed map[string]bool, fallback string) string {
	field := f.Ordering
	desc := false
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}

	if !allowed[field] {
		field = fallback
		desc = false
	}
	if desc {
		return " ORDER BY " + field + " DESC"
	}
	return " ORDER BY " + field + " ASC"
}
