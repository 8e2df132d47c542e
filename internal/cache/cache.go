// Package cache implements spec.md §4.5's persistent version cache: a
// durable (registry_kind, name) -> versions/dist_tags store with a
// refresh-age policy and a cross-process single-flight lock built on a
// timestamp column rather than an external lock service (see
// SPEC_FULL.md's cache supplement and spec.md §9's design note).
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/version-lsp/version-lsp/internal/domain"
	"github.com/version-lsp/version-lsp/internal/logger"
	"github.com/version-lsp/version-lsp/internal/resolver"
)

var cacheLog = logger.New("cache")

// FetchTimeout is spec.md §4.5's single-flight window: a fetching_since
// older than this is considered abandoned and may be reclaimed.
const FetchTimeout = 30 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS packages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	registry_kind TEXT NOT NULL,
	name TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	fetching_since INTEGER,
	UNIQUE(registry_kind, name)
);
CREATE TABLE IF NOT EXISTS versions (
	package_id INTEGER NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	version TEXT NOT NULL,
	seq INTEGER NOT NULL,
	UNIQUE(package_id, version)
);
CREATE TABLE IF NOT EXISTS dist_tags (
	package_id INTEGER NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	tag TEXT NOT NULL,
	value TEXT NOT NULL,
	UNIQUE(package_id, tag)
);
`

// Cache is a single serialized handle onto the on-disk store, per
// spec.md §5's "Cache connection: single serialised handle" policy.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite file at path, applies the
// WAL/NORMAL pragmas carried over from the original Rust cache (so a
// single writer doesn't block concurrent readers from a second LSP
// session pointed at the same data dir), and ensures the schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// The cache's writes are small, serialized transactions; one
	// connection avoids SQLITE_BUSY entirely instead of retrying around it.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func nowMS() int64 { return time.Now().UnixMilli() }

func (c *Cache) packageID(reg domain.RegistryKind, name string) (int64, bool, error) {
	var id int64
	err := c.db.QueryRow(`SELECT id FROM packages WHERE registry_kind = ? AND name = ?`, string(reg), name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// GetVersions returns the cached version list for (reg, name), in
// insertion order, or an empty slice if the package isn't cached.
func (c *Cache) GetVersions(reg domain.RegistryKind, name string) ([]string, error) {
	id, ok, err := c.packageID(reg, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	rows, err := c.db.Query(`SELECT version FROM versions WHERE package_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetDistTag returns the value of tag for (reg, name), or ("", false) if
// absent.
func (c *Cache) GetDistTag(reg domain.RegistryKind, name, tag string) (string, bool, error) {
	id, ok, err := c.packageID(reg, name)
	if err != nil || !ok {
		return "", false, err
	}
	var value string
	err = c.db.QueryRow(`SELECT value FROM dist_tags WHERE package_id = ? AND tag = ?`, id, tag).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *Cache) distTags(id int64) (map[string]string, error) {
	rows, err := c.db.Query(`SELECT tag, value FROM dist_tags WHERE package_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var tag, value string
		if err := rows.Scan(&tag, &value); err != nil {
			return nil, err
		}
		out[tag] = value
	}
	return out, rows.Err()
}

// GetLatestVersion returns the per-registry resolver's pick of "latest"
// for (reg, name), or ("", false) if the package isn't cached at all.
// spec.md §4.5 leaves the choice between storing a materialised "latest"
// and computing it on read to the implementation; this cache computes it
// on read so a resolver change never requires a backfill migration.
func (c *Cache) GetLatestVersion(reg domain.RegistryKind, name string) (string, bool, error) {
	id, ok, err := c.packageID(reg, name)
	if err != nil || !ok {
		return "", false, err
	}
	versions, err := c.GetVersions(reg, name)
	if err != nil {
		return "", false, err
	}
	distTags, err := c.distTags(id)
	if err != nil {
		return "", false, err
	}
	latest, ok := resolver.ForRegistry(reg).Latest(versions, distTags)
	if !ok {
		cacheLog.Warnf("no latest resolvable for %s/%s (versions empty or unparseable)", reg, name)
		return "", false, nil
	}
	return latest, true, nil
}

// VersionExists reports whether v is among the cached versions for
// (reg, name).
func (c *Cache) VersionExists(reg domain.RegistryKind, name, v string) (bool, error) {
	versions, err := c.GetVersions(reg, name)
	if err != nil {
		return false, err
	}
	for _, existing := range versions {
		if existing == v {
			return true, nil
		}
	}
	return false, nil
}

// ReplaceVersions upserts (reg, name)'s row and atomically replaces its
// versions and dist_tags in one transaction, per spec.md §4.5: "package
// row is upserted with new updated_at = now, old versions and dist-tags
// fully replaced."
func (c *Cache) ReplaceVersions(reg domain.RegistryKind, name string, versions []string, distTags map[string]string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	now := nowMS()
	res, err := tx.Exec(`
		INSERT INTO packages (registry_kind, name, updated_at, fetching_since)
		VALUES (?, ?, ?, NULL)
		ON CONFLICT(registry_kind, name) DO UPDATE SET updated_at = excluded.updated_at, fetching_since = NULL`,
		string(reg), name, now)
	if err != nil {
		return fmt.Errorf("upsert package: %w", err)
	}
	id, err := lastPackageID(tx, res, reg, name)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM versions WHERE package_id = ?`, id); err != nil {
		return fmt.Errorf("clear versions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM dist_tags WHERE package_id = ?`, id); err != nil {
		return fmt.Errorf("clear dist_tags: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO versions (package_id, version, seq) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, v := range versions {
		if _, err := stmt.Exec(id, v, i); err != nil {
			return fmt.Errorf("insert version %q: %w", v, err)
		}
	}

	tagStmt, err := tx.Prepare(`INSERT INTO dist_tags (package_id, tag, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tagStmt.Close()
	for tag, value := range distTags {
		if _, err := tagStmt.Exec(id, tag, value); err != nil {
			return fmt.Errorf("insert dist_tag %q: %w", tag, err)
		}
	}

	return tx.Commit()
}

// lastPackageID recovers the package row's id after an upsert. LastInsertId
// is not used: on the UPDATE path SQLite leaves it at whatever row this
// connection inserted last (possibly a versions row), so the id is always
// looked up by natural key.
func lastPackageID(tx *sql.Tx, res sql.Result, reg domain.RegistryKind, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM packages WHERE registry_kind = ? AND name = ?`, string(reg), name).Scan(&id)
	return id, err
}

// PackageKey identifies one cached row by its natural key.
type PackageKey struct {
	Registry domain.RegistryKind
	Name     string
}

// GetPackagesNeedingRefresh returns every (registry, name) whose
// updated_at is older than refreshInterval, per spec.md §4.5.
func (c *Cache) GetPackagesNeedingRefresh(refreshInterval time.Duration) ([]PackageKey, error) {
	cutoff := nowMS() - refreshInterval.Milliseconds()
	rows, err := c.db.Query(`SELECT registry_kind, name FROM packages WHERE updated_at < ?`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PackageKey
	for rows.Next() {
		var reg, name string
		if err := rows.Scan(&reg, &name); err != nil {
			return nil, err
		}
		out = append(out, PackageKey{Registry: domain.RegistryKind(reg), Name: name})
	}
	return out, rows.Err()
}

// TryStartFetch implements spec.md §4.5's single-flight gate: succeeds
// iff the row doesn't exist, has no in-flight fetch, or its in-flight
// fetch is older than FetchTimeout (a crashed process's stale claim).
// On success it atomically claims the row by setting fetching_since=now.
func (c *Cache) TryStartFetch(reg domain.RegistryKind, name string) (bool, error) {
	now := nowMS()
	staleBefore := now - FetchTimeout.Milliseconds()

	tx, err := c.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback() //nolint:errcheck

	id, ok, err := txPackageID(tx, reg, name)
	if err != nil {
		return false, err
	}
	if !ok {
		if _, err := tx.Exec(`INSERT INTO packages (registry_kind, name, updated_at, fetching_since) VALUES (?, ?, 0, ?)`,
			string(reg), name, now); err != nil {
			return false, fmt.Errorf("insert placeholder row: %w", err)
		}
		return true, tx.Commit()
	}

	res, err := tx.Exec(`
		UPDATE packages SET fetching_since = ?
		WHERE id = ? AND (fetching_since IS NULL OR fetching_since < ?)`,
		now, id, staleBefore)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	return true, tx.Commit()
}

// FinishFetch clears fetching_since, releasing the single-flight claim.
// Callers must invoke this on every path (success and failure), per
// spec.md §4.5.
func (c *Cache) FinishFetch(reg domain.RegistryKind, name string) error {
	_, err := c.db.Exec(`UPDATE packages SET fetching_since = NULL WHERE registry_kind = ? AND name = ?`, string(reg), name)
	return err
}

// MarkNotFound records a negative fetch result by bumping updated_at, so
// the row counts as fresh and background refresh skips it. The on-demand
// fetch path is not held back by it: refresh.FetchMissing decides by
// GetLatestVersion, which stays absent for a row with no versions, so the
// package is fetched again on the next edit.
func (c *Cache) MarkNotFound(reg domain.RegistryKind, name string) error {
	now := nowMS()
	_, err := c.db.Exec(`
		INSERT INTO packages (registry_kind, name, updated_at, fetching_since)
		VALUES (?, ?, ?, NULL)
		ON CONFLICT(registry_kind, name) DO UPDATE SET updated_at = excluded.updated_at, fetching_since = NULL`,
		string(reg), name, now)
	return err
}

func txPackageID(tx *sql.Tx, reg domain.RegistryKind, name string) (int64, bool, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM packages WHERE registry_kind = ? AND name = ?`, string(reg), name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
