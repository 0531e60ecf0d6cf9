package sqldb

import (
	"context"
	"database/sql"
	"sync"
)

// stmtCache caches the sql.Stmt prepared for each SQL text on one database
// handle. Statements arrive here already compiled by an external compiler,
// so the SQL text is their identity. The cache lives and dies with the DB
// that owns it.
//
// The mutex must be locked when accessing stmts.
type stmtCache struct {
	db    *sql.DB
	mutex sync.RWMutex
	stmts map[string]*sql.Stmt
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{db: db, stmts: map[string]*sql.Stmt{}}
}

// prepare returns the prepared statement for the query, preparing it on
// first use.
func (sc *stmtCache) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	sc.mutex.RLock()
	stmt, ok := sc.stmts[query]
	sc.mutex.RUnlock()
	if ok {
		return stmt, nil
	}
	stmt, err := sc.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	sc.mutex.Lock()
	// Check if a statement has been inserted by someone else since we last
	// checked.
	if alt, ok := sc.stmts[query]; ok {
		sc.mutex.Unlock()
		stmt.Close()
		return alt, nil
	}
	sc.stmts[query] = stmt
	sc.mutex.Unlock()
	return stmt, nil
}

// close closes every cached statement and empties the cache.
func (sc *stmtCache) close() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	for _, stmt := range sc.stmts {
		stmt.Close()
	}
	sc.stmts = map[string]*sql.Stmt{}
}
