package sqldb

// Exported for testing.
var (
	ReturnsRows = returnsRows
	FromDriver  = fromDriver
)

// StmtCacheLen reports the number of cached prepared statements.
func (d *DB) StmtCacheLen() int {
	d.cache.mutex.RLock()
	defer d.cache.mutex.RUnlock()
	return len(d.cache.stmts)
}
