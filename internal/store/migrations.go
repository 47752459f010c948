// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration records its own version in schema_version.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'AC',
	created     DATETIME NOT NULL,
	updated     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS project_users (
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	PRIMARY KEY (project_id, user_id)
);

CREATE TABLE IF NOT EXISTS tasks (
	id                      INTEGER PRIMARY KEY AUTOINCREMENT,
	title                   TEXT NOT NULL,
	description             TEXT NOT NULL DEFAULT '',
	status                  TEXT NOT NULL DEFAULT 'GR',
	priority                TEXT NOT NULL DEFAULT 'AR',
	term                    DATETIME,
	project_id              INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	executor_id             INTEGER REFERENCES users(id) ON DELETE SET NULL,
	responsible_for_test_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
	created                 DATETIME NOT NULL,
	updated                 DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT NOT NULL,
	body    TEXT NOT NULL,
	task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	created DATETIME NOT NULL,
	updated DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	text       TEXT NOT NULL,
	owner_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	task_id    INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
	created    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_term ON tasks(term);
CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id);
CREATE INDEX IF NOT EXISTS idx_messages_owner ON messages(owner_id);
CREATE INDEX IF NOT EXISTS idx_messages_project ON messages(project_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
