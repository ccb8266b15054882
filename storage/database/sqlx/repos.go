// Package sqlxrepos implements the domain repositories on PostgreSQL
// through sqlx.
package sqlxrepos

import "strconv"

// argList builds positional query arguments incrementally.
type argList []interface{}

func (a *argList) add(val interface{}) string {
	*a = append(*a, val)
	return "$" + strconv.Itoa(len(*a))
}
